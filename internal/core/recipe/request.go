package recipe

import "fmt"

// Mode 生成模式
type Mode string

const (
	// ModeUseWhatIHave 輸出食材必須是輸入食材的子集合
	ModeUseWhatIHave Mode = "use-what-i-have"
	// ModeSuggest 允許在輸入食材之外建議新食材
	ModeSuggest Mode = "suggest"
)

// GenerationRequest 一次食譜生成請求。建構後不可變，由 Service 消費一次。
type GenerationRequest struct {
	Ingredients    []string `json:"ingredients"`
	Servings       string   `json:"servings"`
	Cuisines       []string `json:"cuisines"`
	MaxTimeMinutes int      `json:"maxTime"`
	Hint           string   `json:"hint"`
	Mode           Mode     `json:"mode"`
}

// Validate 驗證請求必要欄位
func (r *GenerationRequest) Validate() error {
	if r.Servings == "" {
		return fmt.Errorf("servings is required")
	}
	if r.MaxTimeMinutes <= 0 {
		return fmt.Errorf("max time must be a positive number of minutes")
	}
	switch r.Mode {
	case ModeUseWhatIHave, ModeSuggest:
	default:
		return fmt.Errorf("invalid mode: %q", r.Mode)
	}
	return nil
}
