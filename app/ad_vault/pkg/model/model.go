package model

// BrandProfile 品牌档案，进程启动时给定，运行期间只读
type BrandProfile struct {
	Name             string   `json:"name" yaml:"name"`
	Overview         string   `json:"overview" yaml:"overview"`
	WebsiteURL       string   `json:"website_url" yaml:"website_url"`
	BrandValues      []string `json:"brand_values" yaml:"brand_values"`
	VisualAesthetics []string `json:"visual_aesthetics" yaml:"visual_aesthetics"`
	ToneOfVoice      []string `json:"tone_of_voice" yaml:"tone_of_voice"`
}

// QueryStatus 搜索策略的检索状态
type QueryStatus string

const (
	QueryPending   QueryStatus = "pending"
	QuerySearching QueryStatus = "searching"
	QueryCompleted QueryStatus = "completed"
	QueryFailed    QueryStatus = "failed"
)

// GeneratedQuery AI 生成的单条搜索策略，在序列中的下标即标签页编号
type GeneratedQuery struct {
	Term         string      `json:"term" validate:"required,max=120"`
	Rationale    string      `json:"rationale" validate:"required,max=300"`
	Status       QueryStatus `json:"status"`
	ResultsCount int         `json:"results_count"`
}

// DisplayFormat 广告素材形式
type DisplayFormat string

const (
	FormatVideo    DisplayFormat = "video"
	FormatImage    DisplayFormat = "image"
	FormatCarousel DisplayFormat = "carousel"
	FormatDCO      DisplayFormat = "dco"
	FormatOther    DisplayFormat = "other"
)

// ParseDisplayFormat 未知取值统一归为 other
func ParseDisplayFormat(s string) DisplayFormat {
	switch f := DisplayFormat(s); f {
	case FormatVideo, FormatImage, FormatCarousel, FormatDCO:
		return f
	default:
		return FormatOther
	}
}

// RunningDuration 广告投放时长
type RunningDuration struct {
	Days int `json:"days"`
}

// Ad 广告记录，以 ID 为唯一标识，从网关返回后不再修改
type Ad struct {
	ID                string           `json:"id"`
	BrandName         string           `json:"brand_name"`
	Title             string           `json:"title"`
	Description       string           `json:"description"`
	DisplayFormat     DisplayFormat    `json:"display_format"`
	PublisherPlatform []string         `json:"publisher_platform"`
	RunningDuration   *RunningDuration `json:"running_duration,omitempty"`
	Thumbnail         string           `json:"thumbnail"`
	VideoURL          string           `json:"video_url,omitempty"`
	ImageURL          string           `json:"image_url,omitempty"`
	CreatedAt         string           `json:"created_at"`
	Score             *float64         `json:"score,omitempty"` // 内部相关度评分
}

// ChatRole 对话角色
type ChatRole string

const (
	RoleUser  ChatRole = "user"
	RoleModel ChatRole = "model"
)

// ChatTurn 对话记录中的一条
type ChatTurn struct {
	Role ChatRole `json:"role"`
	Text string   `json:"text"`
}
