package fonts

import (
	"fmt"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10italic"
	"github.com/go-fonts/latin-modern/lmroman10regular"
)

// 内置字体名称。
const (
	Regular = "lmroman10-regular"
	Bold    = "lmroman10-bold"
	Italic  = "lmroman10-italic"
)

var builtin = map[string][]byte{
	Regular: lmroman10regular.TTF,
	Bold:    lmroman10bold.TTF,
	Italic:  lmroman10italic.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:lmroman10-regular" 或直接 "lmroman10-regular"。
func Load(name string) ([]byte, error) {
	key := strings.ToLower(strings.TrimPrefix(name, "embed:"))
	data, ok := builtin[key]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未知字体", name)
	}
	return data, nil
}

// Names 列出可用的内置字体。
func Names() []string {
	return []string{Regular, Bold, Italic}
}
