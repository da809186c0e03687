package dashboard

import (
	"sort"
)

// DefaultMaxSelection 选择集默认容量
const DefaultMaxSelection = 20

// Selection 跨标签页共享的已选广告集合，容量有上限
type Selection struct {
	max int
	ids map[string]struct{}
}

// NewSelection 创建选择集，max 不大于 0 时使用默认容量
func NewSelection(max int) *Selection {
	if max <= 0 {
		max = DefaultMaxSelection
	}
	return &Selection{max: max, ids: make(map[string]struct{})}
}

// Toggle want 为 true 时加入，已满则返回 ErrSelectionFull 且不做修改；false 时移除
func (s *Selection) Toggle(id string, want bool) error {
	if !want {
		delete(s.ids, id)
		return nil
	}
	if _, ok := s.ids[id]; ok {
		return nil
	}
	if len(s.ids) >= s.max {
		return ErrSelectionFull
	}
	s.ids[id] = struct{}{}
	return nil
}

func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

func (s *Selection) Len() int {
	return len(s.ids)
}

func (s *Selection) Max() int {
	return s.max
}

func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs 按字典序返回，顺序本身没有含义
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clone 深拷贝
func (s *Selection) Clone() *Selection {
	c := &Selection{max: s.max, ids: make(map[string]struct{}, len(s.ids))}
	for id := range s.ids {
		c.ids[id] = struct{}{}
	}
	return c
}
