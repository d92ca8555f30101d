package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// section groups options sharing a dotted prefix. The empty name holds
// top-level keys.
type section struct {
	name string
	opts []ConfigOption
}

func groupOptions(opts []ConfigOption) []section {
	var out []section
	index := map[string]int{}
	for _, o := range opts {
		name, key := "", o.Key
		if i := strings.Index(o.Key, "."); i >= 0 {
			name, key = o.Key[:i], o.Key[i+1:]
		}
		i, ok := index[name]
		if !ok {
			i = len(out)
			index[name] = i
			out = append(out, section{name: name})
		}
		out[i].opts = append(out[i].opts, ConfigOption{Key: key, Default: o.Default, Comment: o.Comment})
	}
	// Top-level keys must precede every [table] header.
	for i, s := range out {
		if s.name == "" && i > 0 {
			copy(out[1:i+1], out[:i])
			out[0] = s
		}
	}
	return out
}

// RenderDefaultTOML renders a TOML config with defaults from GetConfigOptions.
func RenderDefaultTOML() string {
	lines := []string{"# Folio configuration (TOML)"}
	for _, s := range groupOptions(GetConfigOptions()) {
		if s.name != "" {
			lines = append(lines, "["+s.name+"]")
		}
		for _, o := range s.opts {
			lines = appendOption(lines, o)
		}
	}
	return strings.Join(lines, "\n")
}

// UpdateTOML merges defaults into an existing TOML string and comments out
// unknown keys. Missing keys are added inside their existing table when
// there is one.
func UpdateTOML(existing string) (string, bool) {
	known := make(map[string]bool)
	for _, o := range GetConfigOptions() {
		known[o.Key] = true
	}

	lines := strings.Split(existing, "\n")
	out := make([]string, 0, len(lines))
	seen := make(map[string]bool)
	// sectionEnd is the index in out just past the last line of each table.
	sectionEnd := map[string]int{}
	current := ""
	changed := false

	for _, line := range lines {
		trim := strings.TrimSpace(line)
		if strings.HasPrefix(trim, "[") && strings.HasSuffix(trim, "]") {
			current = strings.TrimSpace(trim[1 : len(trim)-1])
			out = append(out, line)
			sectionEnd[current] = len(out)
			continue
		}
		key, ok := "", false
		if trim != "" && !strings.HasPrefix(trim, "#") && !strings.HasPrefix(trim, ";") {
			key, ok = parseTOMLKey(line)
		}
		if !ok {
			out = append(out, line)
			if trim != "" {
				sectionEnd[current] = len(out)
			}
			continue
		}
		full := key
		if current != "" {
			full = current + "." + key
		}
		seen[full] = true
		if !known[full] {
			indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
			out = append(out,
				indent+"# OUTDATED: option removed from config schema",
				indent+"# "+strings.TrimLeft(line, " \t"))
			changed = true
		} else {
			out = append(out, line)
		}
		sectionEnd[current] = len(out)
	}

	var missing []ConfigOption
	for _, o := range GetConfigOptions() {
		if !seen[o.Key] {
			missing = append(missing, o)
		}
	}
	if len(missing) == 0 {
		return strings.Join(out, "\n"), changed
	}

	type insertion struct {
		at    int
		lines []string
	}
	var inserts []insertion
	var tail []string
	for _, s := range groupOptions(missing) {
		block := []string{"# Added by config update"}
		for _, o := range s.opts {
			block = appendOption(block, o)
		}
		at, ok := sectionEnd[s.name]
		if s.name == "" && !ok {
			// Before the first table header, or at the end of a file
			// without tables.
			at, ok = len(out), true
			for i, l := range out {
				t := strings.TrimSpace(l)
				if strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]") {
					at = i
					break
				}
			}
		}
		if ok {
			inserts = append(inserts, insertion{at: at, lines: block})
			continue
		}
		tail = append(tail, "", "["+s.name+"]")
		tail = append(tail, block...)
	}
	// Apply from the bottom up so earlier indexes stay valid.
	sort.SliceStable(inserts, func(i, j int) bool { return inserts[i].at > inserts[j].at })
	for _, ins := range inserts {
		out = append(out[:ins.at], append(ins.lines, out[ins.at:]...)...)
	}
	out = append(out, tail...)
	return strings.Join(out, "\n"), true
}

func parseTOMLKey(line string) (string, bool) {
	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", false
	}
	key := strings.TrimSpace(line[:idx])
	if key == "" || strings.HasPrefix(key, "[") || strings.HasPrefix(key, "\"") || strings.HasPrefix(key, "'") {
		return "", false
	}
	return key, true
}

func appendOption(lines []string, o ConfigOption) []string {
	if o.Comment != "" {
		lines = append(lines, "# "+o.Comment)
	}
	return append(lines, fmt.Sprintf("%s = %s", o.Key, tomlValue(o.Default)), "")
}

func tomlValue(value any) string {
	switch v := value.(type) {
	case string:
		return strconv.Quote(v)
	case []string:
		quoted := make([]string, len(v))
		for i, s := range v {
			quoted[i] = strconv.Quote(s)
		}
		return "[" + strings.Join(quoted, ", ") + "]"
	default:
		return fmt.Sprintf("%v", v)
	}
}
