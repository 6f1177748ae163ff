package layout

import (
	"encoding/json"
	"os"
)

// DebugDump 汇总一次生成的段落与分页结果。
type DebugDump struct {
	Mode       Mode        `json:"mode"`
	Paragraphs []Paragraph `json:"paragraphs"`
	Result     *Result     `json:"result"`
}

// WriteDebugJSON 将段落与布局结果输出为 JSON，便于调试折行与分页。
func WriteDebugJSON(path string, mode Mode, paragraphs []Paragraph, res *Result) error {
	data, err := json.MarshalIndent(DebugDump{Mode: mode, Paragraphs: paragraphs, Result: res}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
