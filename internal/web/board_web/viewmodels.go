package board_web

type StatusVM struct {
	Healthy     bool     `json:"healthy"`
	UpdatedAt   string   `json:"updated_at"`
	LastRun     string   `json:"last_run"`
	LastSuccess string   `json:"last_success"`
	Duration    string   `json:"duration"`
	Error       string   `json:"error,omitempty"`
	Cycles      int      `json:"cycles"`
	Failures    int      `json:"failures"`
	Rows        []string `json:"rows"`
}
