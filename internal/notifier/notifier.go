// Package notifier delivers reminder notifications to the habitsnap tray
// app, or to a terminal when the tray app is not running.
package notifier

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitsnap/internal/constants"
	"github.com/julianstephens/habitsnap/internal/logger"
)

var (
	userConfigDirFunc = os.UserConfigDir
	findProcessFunc   = ps.FindProcess

	// ErrTrayNotRunning is returned when no live tray process owns the lockfile.
	ErrTrayNotRunning = errors.New(constants.TrayExecutablePrefix + " is not running")
)

// Tray posts notifications to the tray app's local webhook.
type Tray struct {
	client *http.Client
}

type WebhookPayload struct {
	Title      string `json:"title"`
	Text       string `json:"text"`
	DurationMs uint32 `json:"duration_ms"`
}

func New() *Tray {
	return &Tray{client: &http.Client{Timeout: 5 * time.Second}}
}

func (n *Tray) Notify(title, body string) error {
	dir, err := GetTrayAppConfigDir()
	if err != nil {
		return err
	}
	lock, err := readLockfile(filepath.Join(dir, constants.NotifierLockfileName))
	if err != nil {
		return err
	}
	if err := lock.verify(); err != nil {
		return err
	}
	return lock.post(n.client, WebhookPayload{
		Title:      title,
		Text:       body,
		DurationMs: constants.NotificationDurationMs,
	})
}

// GetTrayAppConfigDir returns where the tray app keeps its lockfile. The
// tray's settings.json may move it with lockfile_dir.
func GetTrayAppConfigDir() (string, error) {
	configDir, err := userConfigDirFunc()
	if err != nil {
		return "", fmt.Errorf("failed to get user config dir: %w", err)
	}
	trayDir := filepath.Join(configDir, constants.TrayAppIdentifier)

	settingsPath := filepath.Join(trayDir, "settings.json")
	data, err := os.ReadFile(settingsPath)
	if err != nil {
		return trayDir, nil
	}
	var store struct {
		Settings struct {
			LockfileDir string `json:"lockfile_dir"`
		} `json:"settings"`
	}
	if err := json.Unmarshal(data, &store); err != nil {
		logger.Debug("Ignoring unreadable tray settings", "path", settingsPath, "error", err)
		return trayDir, nil
	}
	if store.Settings.LockfileDir != "" {
		return store.Settings.LockfileDir, nil
	}
	return trayDir, nil
}

// lockfile is the tray app's "port|pid|secret" handshake file.
type lockfile struct {
	Port   int
	PID    int
	Secret string
}

func readLockfile(path string) (lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return lockfile{}, ErrTrayNotRunning
	}
	return parseLockfile(string(content))
}

func parseLockfile(content string) (lockfile, error) {
	parts := strings.Split(strings.TrimSpace(content), "|")
	if len(parts) != 3 {
		return lockfile{}, errors.New("lockfile is malformed")
	}

	port, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return lockfile{}, fmt.Errorf("invalid port number in lockfile: %q", parts[0])
	}
	if port < 1 || port > 65535 {
		return lockfile{}, fmt.Errorf("port number %d is outside valid range (1-65535)", port)
	}
	pid, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return lockfile{}, fmt.Errorf("invalid process ID in lockfile: %q", parts[1])
	}
	secret := strings.TrimSpace(parts[2])
	if secret == "" {
		return lockfile{}, errors.New("secret in lockfile is empty")
	}
	return lockfile{Port: port, PID: pid, Secret: secret}, nil
}

// verify checks that the pid is a live tray process, so a stale lockfile
// never sends the secret to whatever reused the port.
func (l lockfile) verify() error {
	process, err := findProcessFunc(l.PID)
	if err != nil || process == nil {
		return ErrTrayNotRunning
	}
	if !strings.HasPrefix(process.Executable(), constants.TrayExecutablePrefix) {
		return fmt.Errorf("process with PID %d is not %s (is %s)", l.PID, constants.TrayExecutablePrefix, process.Executable())
	}
	return nil
}

func (l lockfile) url() string {
	return "http://127.0.0.1:" + strconv.Itoa(l.Port)
}

func (l lockfile) post(client *http.Client, payload WebhookPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	req, err := http.NewRequest(http.MethodPost, l.url(), bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Habitsnap-Secret", l.Secret)

	res, err := client.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		return fmt.Errorf("notification failed with status %d: %s", res.StatusCode, strings.TrimSpace(string(body)))
	}
	return nil
}

var (
	consoleTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	consoleBodyStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// Console prints notifications to a writer, usually the terminal running
// `habitsnap remind`.
type Console struct {
	W   io.Writer
	Now func() time.Time
}

func (c Console) Notify(title, body string) error {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	_, err := fmt.Fprintf(c.W, "[%s] %s %s\n",
		now().Format(constants.TimeFormat),
		consoleTitleStyle.Render(title),
		consoleBodyStyle.Render(body))
	return err
}

// Notifier is the interface shared by Tray, Console and Fallback.
type Notifier interface {
	Notify(title, body string) error
}

// Fallback tries Primary and uses Secondary when Primary fails.
type Fallback struct {
	Primary   Notifier
	Secondary Notifier
}

func (f Fallback) Notify(title, body string) error {
	err := f.Primary.Notify(title, body)
	if err == nil {
		return nil
	}
	logger.Debug("Primary notifier failed, falling back", "error", err)
	if serr := f.Secondary.Notify(title, body); serr != nil {
		return errors.Join(err, serr)
	}
	return nil
}
