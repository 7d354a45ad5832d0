// Package conf holds the bootstrap configuration structs scanned from the
// yaml config file.
package conf

// Bootstrap is the root configuration.
type Bootstrap struct {
	Server     *Server     `json:"server"`
	Data       *Data       `json:"data"`
	Moderation *Moderation `json:"moderation"`
	Matching   *Matching   `json:"matching"`
	Vendors    *Vendors    `json:"vendors"`
}

type Server struct {
	HTTP *HTTPServer `json:"http"`
}

type HTTPServer struct {
	Network        string `json:"network"`
	Addr           string `json:"addr"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

type Data struct {
	Database *Database `json:"database"`
	Redis    *Redis    `json:"redis"`
}

type Database struct {
	Driver string `json:"driver"`
	Source string `json:"source"`
	Pool   *Pool  `json:"pool"`
}

type Pool struct {
	MaxOpenConns           int32 `json:"max_open_conns"`
	MinIdleConns           int32 `json:"min_idle_conns"`
	MaxConnLifetimeMinutes int   `json:"max_conn_lifetime_minutes"`
	MaxConnIdleTimeMinutes int   `json:"max_conn_idle_time_minutes"`
}

type Redis struct {
	Network             string `json:"network"`
	Addr                string `json:"addr"`
	ReadTimeoutSeconds  int    `json:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `json:"write_timeout_seconds"`
}

type Moderation struct {
	// FailOpen lets prompts through when the external judge is down.
	// Defaults to false: fail closed.
	FailOpen               bool    `json:"fail_open"`
	ExternalTimeoutSeconds int     `json:"external_timeout_seconds"`
	Gemini                 *Gemini `json:"gemini"`
}

type Gemini struct {
	BaseURL        string `json:"base_url"`
	Model          string `json:"model"`
	APIKey         string `json:"api_key"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// Matching tunes the corpus match scoring. Zero values fall back to the
// engine defaults.
type Matching struct {
	KeywordWeight float64 `json:"keyword_weight"`
	TextWeight    float64 `json:"text_weight"`
	StyleBonus    float64 `json:"style_bonus"`
	MinScore      float64 `json:"min_score"`
}

type Vendors struct {
	Goenhance *Goenhance `json:"goenhance"`
	Pollo     *Pollo     `json:"pollo"`
}

type Goenhance struct {
	BaseURL             string `json:"base_url"`
	APIKey              string `json:"api_key"`
	TimeoutSeconds      int    `json:"timeout_seconds"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
	PollTimeoutSeconds  int    `json:"poll_timeout_seconds"`
}

type Pollo struct {
	BaseURL             string `json:"base_url"`
	APIKey              string `json:"api_key"`
	Model               string `json:"model"`
	TimeoutSeconds      int    `json:"timeout_seconds"`
	PollIntervalSeconds int    `json:"poll_interval_seconds"`
	PollTimeoutSeconds  int    `json:"poll_timeout_seconds"`
}
