package editor

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mithrel/folio/internal/importer"
	"github.com/mithrel/folio/pkg/api"
)

const helpHeader = "# Folio post. Lines starting with '#' in this header are ignored.\n" +
	"# Edit the fields below; the post body follows the closing '---'.\n"

// ComposeContent creates the text presented to the editor.
func ComposeContent(p api.Post) ([]byte, error) {
	data, err := importer.Format(p)
	if err != nil {
		return nil, err
	}
	// The help lines are YAML comments inside the header.
	return append([]byte("---\n"+helpHeader), data[len("---\n"):]...), nil
}

// ParseEdited reads the editor output back into a post.
func ParseEdited(data []byte) (api.Post, error) {
	p, err := importer.Parse(data)
	if err != nil {
		return api.Post{}, fmt.Errorf("edited post: %w", err)
	}
	return p, nil
}

// PreferredEditor finds a suitable editor from env or common defaults.
func PreferredEditor() (string, error) {
	if v := os.Getenv("VISUAL"); v != "" {
		return v, nil
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e, nil
	}
	for _, cand := range []string{"nvim", "vim", "vi", "nano"} {
		if p, err := exec.LookPath(cand); err == nil {
			return p, nil
		}
	}
	return "", errors.New("no editor found; set $EDITOR or $VISUAL")
}

// PathForSlug returns the temp file path used to edit a post.
func PathForSlug(slug string) (string, error) {
	name := api.Slugify(slug)
	if name == "" {
		name = "new-post"
	}
	name += ".folio.md"
	if xdg := os.Getenv("XDG_RUNTIME_DIR"); xdg != "" {
		return filepath.Join(xdg, "folio", name), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "folio", "edit", name), nil
}

func writeFile0600(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path, data, fs.FileMode(0o600))
}

// OpenAt opens the editor at path with initial content and returns final bytes and whether it changed.
func OpenAt(path string, initial []byte) (final []byte, changed bool, err error) {
	if err := writeFile0600(path, initial); err != nil {
		return nil, false, err
	}
	defer os.Remove(path)

	// Honor VISUAL/EDITOR including flags by running via a shell wrapper.
	ed := os.Getenv("VISUAL")
	if ed == "" {
		ed = os.Getenv("EDITOR")
	}
	var cmd *exec.Cmd
	if strings.TrimSpace(ed) != "" {
		cmd = exec.Command("sh", "-c", "$EDITORCMD \"$FILEPATH\"")
		cmd.Env = append(os.Environ(), "EDITORCMD="+ed, "FILEPATH="+path)
	} else {
		prog, err := PreferredEditor()
		if err != nil {
			return nil, false, err
		}
		cmd = exec.Command(prog, path)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return nil, false, err
	}
	out, err := os.ReadFile(path)
	if err != nil {
		return nil, false, err
	}
	return out, !bytes.Equal(out, initial), nil
}

// TitleFromContent derives a title from the first non-blank line of a
// document, dropping heading markers. The result is squashed and capped at
// 120 bytes.
func TitleFromContent(s string) string {
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(line), "#>"))
		if line == "" {
			continue
		}
		line = strings.Join(strings.Fields(line), " ")
		if len(line) > 120 {
			line = line[:120]
		}
		return line
	}
	return ""
}
