// Package menu is the interactive editor for the env file: a small state
// machine that renders a numbered menu, reads one line, runs the chosen
// action and returns to the listing until the operator saves or quits.
//
// All edits happen on an in-memory map; nothing touches the file until the
// operator chooses "s".
package menu

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/meetcute/meetcute-setup/internal/config"
	"github.com/meetcute/meetcute-setup/internal/envstore"
	"github.com/meetcute/meetcute-setup/internal/logging"
	"github.com/meetcute/meetcute-setup/internal/secrets"
	"github.com/meetcute/meetcute-setup/internal/session"
)

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	warnColor    = color.New(color.FgYellow)
	okColor      = color.New(color.FgGreen)
	keyColor     = color.New(color.FgHiWhite)
)

const options = `  1) List variables
  2) Add or update a variable
  3) Remove a variable
  4) Import from template
  5) Validate required variables
  6) Show sensitive values
  s) Save and exit
  q) Quit without saving
`

// Outcome reports how the session ended.
type Outcome struct {
	Saved bool
}

// Menu edits vars and, on save, writes them to path.
type Menu struct {
	sess     *session.Session
	vars     *envstore.Map
	path     string
	template string
	logger   logging.Logger
}

// New returns a Menu over vars. vars is owned by the menu until Run returns.
func New(sess *session.Session, vars *envstore.Map, path, template string, logger logging.Logger) *Menu {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Menu{sess: sess, vars: vars, path: path, template: template, logger: logger}
}

// Vars returns the map being edited.
func (m *Menu) Vars() *envstore.Map {
	return m.vars
}

// Run loops until the operator saves ("s"), quits ("q") or input ends.
// End of input discards like "q".
func (m *Menu) Run(ctx context.Context) (Outcome, error) {
	for {
		m.render()

		line, err := m.sess.ReadLine("Choose an option: ")
		if errors.Is(err, io.EOF) {
			return m.exit(ctx, false)
		}
		if err != nil {
			return Outcome{}, fmt.Errorf("read input: %w", err)
		}

		state, save, ok := dispatch(line)
		if !ok {
			m.warn("Unknown option %q", line)
			continue
		}

		var actionErr error
		switch state {
		case Listing:
			m.list(false)
		case Editing:
			actionErr = m.edit(ctx)
		case Removing:
			actionErr = m.remove(ctx)
		case Importing:
			m.importTemplate(ctx)
		case Validating:
			m.validate()
		case RevealingSensitive:
			m.warn("Sensitive values are shown in clear text")
			m.list(true)
		case ConfirmExit:
			return m.exit(ctx, save)
		}

		if errors.Is(actionErr, io.EOF) {
			return m.exit(ctx, false)
		}
		if actionErr != nil {
			return Outcome{}, actionErr
		}
	}
}

func (m *Menu) render() {
	out := m.sess.Out()
	fmt.Fprintln(out)
	headingColor.Fprintf(out, "=== Environment configuration: %s (%d variables) ===\n", m.path, m.vars.Len())
	fmt.Fprint(out, options)
}

func (m *Menu) list(reveal bool) {
	out := m.sess.Out()
	if m.vars.Len() == 0 {
		fmt.Fprintln(out, "  (no variables set)")
		return
	}
	for _, k := range m.vars.Keys() {
		v, _ := m.vars.Get(k)
		if !reveal {
			v = secrets.Display(k, v)
		}
		fmt.Fprint(out, "  ")
		keyColor.Fprint(out, k)
		fmt.Fprintf(out, "=%s\n", v)
	}
}

func (m *Menu) edit(ctx context.Context) error {
	key, err := m.sess.ReadLine("Variable name: ")
	if err != nil {
		return err
	}
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		m.warn("Variable name cannot be empty")
		return nil
	}
	if strings.ContainsAny(key, "= \t") || strings.HasPrefix(key, "#") {
		m.warn("Invalid variable name %q", key)
		return nil
	}

	prompt := fmt.Sprintf("Value for %s: ", key)
	var value string
	if secrets.IsSensitive(key) {
		value, err = m.sess.ReadSecret(prompt)
	} else {
		value, err = m.sess.ReadLine(prompt)
	}
	if err != nil {
		return err
	}
	if value == "" {
		m.warn("Value cannot be empty; use option 3 to remove %s", key)
		return nil
	}

	existed := m.vars.Has(key)
	m.vars.Set(key, value)
	if existed {
		m.ok("Updated %s", key)
	} else {
		m.ok("Added %s", key)
	}
	m.logger.Debug(ctx, "variable set", "var", key, key, value)
	return nil
}

func (m *Menu) remove(ctx context.Context) error {
	key, err := m.sess.ReadLine("Variable to remove: ")
	if err != nil {
		return err
	}
	key = strings.ToUpper(strings.TrimSpace(key))
	if !m.vars.Delete(key) {
		m.warn("%s is not set", key)
		return nil
	}
	m.ok("Removed %s", key)
	m.logger.Debug(ctx, "variable removed", "var", key)
	return nil
}

func (m *Menu) importTemplate(ctx context.Context) {
	if _, err := os.Stat(m.template); errors.Is(err, fs.ErrNotExist) {
		m.warn("Template %s not found", m.template)
		return
	}
	tmpl, err := envstore.Load(m.template)
	if err != nil {
		m.warn("Cannot read template: %v", err)
		return
	}
	n := m.vars.Merge(tmpl)
	m.ok("Imported %d variable(s) from %s", n, m.template)
	m.logger.Debug(ctx, "template imported", "template", m.template, "imported", n)
}

func (m *Menu) validate() {
	res := config.Validate(m.vars, config.RequiredKeys)
	if res.Valid {
		m.ok("All required variables are set")
		return
	}
	m.warn("Missing required variables:")
	for _, k := range res.Missing {
		fmt.Fprintf(m.sess.Out(), "  - %s\n", k)
	}
}

func (m *Menu) exit(ctx context.Context, save bool) (Outcome, error) {
	if !save {
		m.sess.Println("Changes discarded.")
		return Outcome{}, nil
	}
	if err := envstore.Save(m.path, m.vars); err != nil {
		return Outcome{}, fmt.Errorf("save %s: %w", m.path, err)
	}
	m.ok("Saved %d variable(s) to %s", m.vars.Len(), m.path)
	m.logger.Info(ctx, "env file saved", "path", m.path, "variables", m.vars.Len())
	return Outcome{Saved: true}, nil
}

func (m *Menu) warn(format string, args ...any) {
	warnColor.Fprintf(m.sess.Out(), "! "+format+"\n", args...)
}

func (m *Menu) ok(format string, args ...any) {
	okColor.Fprintf(m.sess.Out(), format+"\n", args...)
}
