package conf

type Bootstrap struct {
	Server *Server
	Vault  *Vault
}

type Server struct {
	Http *HTTP
}

type HTTP struct {
	Addr    string
	Timeout string
}

type Vault struct {
	Llm         *LLM         `json:"llm"`
	Search      *Search      `json:"search"`
	Brand       *Brand       `json:"brand"`
	Enrich      *Enrich      `json:"enrich"`
	Selection   *Selection   `json:"selection"`
	Upload      *Upload      `json:"upload"`
	Log         *Log         `json:"log"`
	Concurrency *Concurrency `json:"concurrency"`
}

type LLM struct {
	Provider       string `json:"provider"`
	BaseUrl        string `json:"base_url"`
	ApiKey         string `json:"api_key"`
	Model          string `json:"model"`
	ChatModel      string `json:"chat_model"`
	ThinkingBudget int32  `json:"thinking_budget"`
}

type Search struct {
	Provider string    `json:"provider"`
	Foreplay *Foreplay `json:"foreplay"`
}

type Foreplay struct {
	BaseUrl string `json:"base_url"`
	ApiKey  string `json:"api_key"`
	Timeout int32  `json:"timeout"`
	Limit   int32  `json:"limit"`
	Order   string `json:"order"`
}

type Brand struct {
	Name             string   `json:"name"`
	Overview         string   `json:"overview"`
	WebsiteUrl       string   `json:"website_url"`
	BrandValues      []string `json:"brand_values"`
	VisualAesthetics []string `json:"visual_aesthetics"`
	ToneOfVoice      []string `json:"tone_of_voice"`
}

type Enrich struct {
	Website  bool  `json:"website"`
	Timeout  int32 `json:"timeout"`
	MaxChars int32 `json:"max_chars"`
}

type Selection struct {
	Max int32 `json:"max"`
}

type Upload struct {
	Mode       string `json:"mode"`
	Step       int32  `json:"step"`
	IntervalMs int32  `json:"interval_ms"`
	SettleMs   int32  `json:"settle_ms"`
	S3         *S3    `json:"s3"`
}

type S3 struct {
	Region          string `json:"region"`
	Bucket          string `json:"bucket"`
	Prefix          string `json:"prefix"`
	AccessKeyId     string `json:"access_key_id"`
	SecretAccessKey string `json:"secret_access_key"`
}

type Log struct {
	Level      string `json:"level"`
	File       string `json:"file"`
	MaxSizeMb  int32  `json:"max_size_mb"`
	MaxBackups int32  `json:"max_backups"`
}

type Concurrency struct {
	Qps int32 `json:"qps"`
	Rpm int32 `json:"rpm"`
}
