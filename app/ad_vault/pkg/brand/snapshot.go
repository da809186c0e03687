package brand

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-shiori/go-readability"
)

// Fetcher 抓取网页正文
type Fetcher func(url string, timeout time.Duration) (string, error)

// ReadabilityFetcher 使用 readability 提取正文
func ReadabilityFetcher(url string, timeout time.Duration) (string, error) {
	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}

// Snapshot 抓取品牌官网正文并截断，用于丰富策略生成的上下文
func Snapshot(fetch Fetcher, url string, timeout time.Duration, maxChars int) (string, error) {
	if url == "" {
		return "", fmt.Errorf("website url is empty")
	}
	if fetch == nil {
		fetch = ReadabilityFetcher
	}

	text, err := fetch(url, timeout)
	if err != nil {
		return "", fmt.Errorf("fetch website failed: %w", err)
	}

	text = strings.Join(strings.Fields(text), " ")
	if maxChars > 0 && utf8.RuneCountInString(text) > maxChars {
		text = string([]rune(text)[:maxChars])
	}
	return text, nil
}
