// Package binding resolves ${path.to.value} placeholders against data
// decoded from JSON (maps, slices and scalars), so one sketch file can be
// exported with different parameters.
package binding

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Interpolate 将文本中的 ${path.to.value} 替换为 data 中的值。
// 若 data 为空或路径不存在，则保留原占位符。
func Interpolate(text string, data any) string {
	if data == nil {
		return text
	}
	return exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		path := strings.TrimSpace(exprPattern.FindStringSubmatch(match)[1])
		if path == "" {
			return match
		}
		if val, ok := Lookup(data, path); ok {
			return fmt.Sprint(val)
		}
		return match
	})
}

// Expand resolves a value that is either a bare placeholder ("${a.b}") or a
// plain string possibly containing placeholders. A bare placeholder returns
// the bound value itself, preserving its type; anything else interpolates.
func Expand(text string, data any) (any, bool) {
	groups := exprPattern.FindStringSubmatch(text)
	if groups != nil && groups[0] == text {
		return Lookup(data, strings.TrimSpace(groups[1]))
	}
	return Interpolate(text, data), true
}

// Lookup resolves a dotted path (with optional [idx] suffixes per segment,
// eg "strokes[2].width") into data. Returns the value and whether the whole
// path resolved.
func Lookup(data any, path string) (any, bool) {
	current := data
	for _, segment := range strings.Split(path, ".") {
		name, indexes, ok := splitSegment(segment)
		if !ok {
			return nil, false
		}
		if name != "" {
			m, isMap := current.(map[string]any)
			if !isMap {
				return nil, false
			}
			if current, ok = m[name]; !ok {
				return nil, false
			}
		}
		for _, idx := range indexes {
			arr, isArr := current.([]any)
			if !isArr || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			current = arr[idx]
		}
	}
	return current, true
}

// splitSegment separates "name[2][0]" into the name and index list.
func splitSegment(segment string) (string, []int, bool) {
	i := strings.Index(segment, "[")
	if i == -1 {
		return segment, nil, segment != ""
	}
	name := segment[:i]
	var indexes []int
	rest := segment[i:]
	for len(rest) > 0 {
		if rest[0] != '[' {
			return "", nil, false
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, false
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil {
			return "", nil, false
		}
		indexes = append(indexes, idx)
		rest = rest[end+1:]
	}
	return name, indexes, true
}
