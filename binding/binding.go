package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Template 是预先切分好的文本模板，文本中的 ${path.to.value} 在 Execute 时替换为 data 中的值。
type Template struct {
	segments []segment
}

type segment struct {
	literal string
	path    string
	raw     string
}

// Compile 将文本切分为字面量与占位符片段。占位符路径为空时按字面量保留。
func Compile(text string) Template {
	var segs []segment
	last := 0
	for _, loc := range exprPattern.FindAllStringSubmatchIndex(text, -1) {
		if loc[0] > last {
			segs = append(segs, segment{literal: text[last:loc[0]]})
		}
		raw := text[loc[0]:loc[1]]
		path := strings.TrimSpace(text[loc[2]:loc[3]])
		if path == "" {
			segs = append(segs, segment{literal: raw})
		} else {
			segs = append(segs, segment{path: path, raw: raw})
		}
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, segment{literal: text[last:]})
	}
	return Template{segments: segs}
}

// Placeholders 返回模板中出现的全部占位符路径（按出现顺序，可能重复）。
func (t Template) Placeholders() []string {
	var out []string
	for _, s := range t.segments {
		if s.path != "" {
			out = append(out, s.path)
		}
	}
	return out
}

// Execute 渲染模板；data 为空或路径不存在时保留原占位符。
func (t Template) Execute(data any) string {
	var b strings.Builder
	for _, s := range t.segments {
		if s.path == "" {
			b.WriteString(s.literal)
			continue
		}
		if data == nil {
			b.WriteString(s.raw)
			continue
		}
		if val, ok := resolvePath(data, s.path); ok {
			b.WriteString(fmt.Sprint(val))
			continue
		}
		b.WriteString(s.raw)
	}
	return b.String()
}

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return Compile(text).Execute(data)
}

func resolvePath(data any, path string) (any, bool) {
	current := data
	for _, seg := range strings.Split(path, ".") {
		name, indexes := parseSegment(seg)
		if name != "" {
			var ok bool
			current, ok = descendMap(current, name)
			if !ok {
				return nil, false
			}
		}
		for _, idxStr := range indexes {
			idx, err := strconv.Atoi(idxStr)
			if err != nil {
				return nil, false
			}
			var ok bool
			current, ok = descendArray(current, idx)
			if !ok {
				return nil, false
			}
		}
	}
	return current, true
}

func parseSegment(seg string) (string, []string) {
	i := strings.Index(seg, "[")
	if i == -1 {
		return seg, nil
	}
	name := seg[:i]
	var indexes []string
	rest := seg[i:]
	for len(rest) > 0 && rest[0] == '[' {
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			break
		}
		indexes = append(indexes, rest[1:end])
		rest = rest[end+1:]
	}
	return name, indexes
}

func descendMap(current any, key string) (any, bool) {
	switch c := current.(type) {
	case map[string]any:
		val, ok := c[key]
		return val, ok
	case map[string]string:
		val, ok := c[key]
		return val, ok
	default:
		return nil, false
	}
}

func descendArray(current any, idx int) (any, bool) {
	switch c := current.(type) {
	case []any:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	case []string:
		if idx < 0 || idx >= len(c) {
			return nil, false
		}
		return c[idx], true
	default:
		return nil, false
	}
}
