package document

import (
	"encoding/json"
	"os"
)

// WriteDebugJSON 将文档内容输出为 JSON，便于调试或可视化（背景图片本身不参与序列化）。
func WriteDebugJSON(doc *Document, path string) error {
	if doc == nil {
		return nil
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
