package notifier

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	ps "github.com/mitchellh/go-ps"

	"github.com/julianstephens/habitsnap/internal/constants"
)

type fakeProcess struct {
	pid        int
	executable string
}

func (p fakeProcess) Pid() int           { return p.pid }
func (p fakeProcess) PPid() int          { return 0 }
func (p fakeProcess) Executable() string { return p.executable }

// stubEnv points the notifier at a temp config dir and a fake process table.
func stubEnv(t *testing.T, procs map[int]string) string {
	t.Helper()
	dir := t.TempDir()
	oldDir, oldFind := userConfigDirFunc, findProcessFunc
	t.Cleanup(func() { userConfigDirFunc, findProcessFunc = oldDir, oldFind })

	userConfigDirFunc = func() (string, error) { return dir, nil }
	findProcessFunc = func(pid int) (ps.Process, error) {
		exe, ok := procs[pid]
		if !ok {
			return nil, nil
		}
		return fakeProcess{pid: pid, executable: exe}, nil
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestGetTrayAppConfigDir(t *testing.T) {
	dir := stubEnv(t, nil)
	trayDir := filepath.Join(dir, constants.TrayAppIdentifier)
	custom := filepath.Join(dir, "custom-locks")

	tests := []struct {
		name     string
		settings string
		want     string
	}{
		{name: "no settings file", want: trayDir},
		{name: "lockfile_dir override", settings: fmt.Sprintf(`{"settings":{"lockfile_dir":%q}}`, custom), want: custom},
		{name: "empty override", settings: `{"settings":{"lockfile_dir":""}}`, want: trayDir},
		{name: "unreadable settings", settings: `{not json`, want: trayDir},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settingsPath := filepath.Join(trayDir, "settings.json")
			_ = os.Remove(settingsPath)
			if tt.settings != "" {
				writeFile(t, settingsPath, tt.settings)
			}
			got, err := GetTrayAppConfigDir()
			if err != nil {
				t.Fatalf("GetTrayAppConfigDir() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("GetTrayAppConfigDir() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseLockfile(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    lockfile
		wantErr string
	}{
		{name: "valid", content: "8080|1234|s3cret\n", want: lockfile{Port: 8080, PID: 1234, Secret: "s3cret"}},
		{name: "too few fields", content: "8080|1234", wantErr: "malformed"},
		{name: "bad port", content: "http|1234|s", wantErr: "invalid port"},
		{name: "port out of range", content: "70000|1234|s", wantErr: "outside valid range"},
		{name: "bad pid", content: "8080|abc|s", wantErr: "invalid process ID"},
		{name: "empty secret", content: "8080|1234| ", wantErr: "secret in lockfile is empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseLockfile(tt.content)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("parseLockfile() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseLockfile() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("parseLockfile() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLockfileVerify(t *testing.T) {
	stubEnv(t, map[int]string{
		100: constants.TrayExecutablePrefix,
		200: "bash",
	})

	tests := []struct {
		name    string
		pid     int
		wantErr bool
	}{
		{name: "tray process", pid: 100},
		{name: "pid reused by another program", pid: 200, wantErr: true},
		{name: "no such process", pid: 300, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lockfile{Port: 8080, PID: tt.pid, Secret: "s"}.verify()
			if (err != nil) != tt.wantErr {
				t.Errorf("verify() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// trayServer accepts notifications carrying secret and records them.
func trayServer(t *testing.T, secret string) (*httptest.Server, *[]WebhookPayload) {
	t.Helper()
	var got []WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		if r.Header.Get("X-Habitsnap-Secret") != secret {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		var payload WebhookPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil || payload.Title == "" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		got = append(got, payload)
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server, &got
}

func serverPort(t *testing.T, server *httptest.Server) int {
	t.Helper()
	u, err := url.Parse(server.URL)
	if err != nil {
		t.Fatal(err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		t.Fatal(err)
	}
	return port
}

func TestLockfilePost(t *testing.T) {
	server, received := trayServer(t, "test-secret")
	port := serverPort(t, server)

	tests := []struct {
		name    string
		secret  string
		payload WebhookPayload
		wantErr string
	}{
		{name: "accepted", secret: "test-secret", payload: WebhookPayload{Title: "Habit Reminder", Text: "hello"}},
		{name: "wrong secret", secret: "wrong", payload: WebhookPayload{Title: "Habit Reminder"}, wantErr: "status 401: Unauthorized"},
		{name: "missing title", secret: "test-secret", payload: WebhookPayload{Text: "no title"}, wantErr: "status 400"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := lockfile{Port: port, PID: 1, Secret: tt.secret}.post(http.DefaultClient, tt.payload)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("post() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("post() error = %v, want %q", err, tt.wantErr)
			}
		})
	}

	if len(*received) != 1 || (*received)[0].Text != "hello" {
		t.Errorf("server received %+v, want one payload", *received)
	}
}

func TestTrayNotify(t *testing.T) {
	server, received := trayServer(t, "tray-secret")
	dir := stubEnv(t, map[int]string{4242: constants.TrayExecutablePrefix + "-linux"})
	lockPath := filepath.Join(dir, constants.TrayAppIdentifier, constants.NotifierLockfileName)

	if err := New().Notify("title", "body"); !errors.Is(err, ErrTrayNotRunning) {
		t.Fatalf("Notify() without lockfile error = %v, want ErrTrayNotRunning", err)
	}

	writeFile(t, lockPath, fmt.Sprintf("%d|4242|tray-secret", serverPort(t, server)))
	if err := New().Notify("Habit Reminder", "Time for Read!"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	if len(*received) != 1 {
		t.Fatalf("server received %d notifications, want 1", len(*received))
	}
	got := (*received)[0]
	if got.Title != "Habit Reminder" || got.DurationMs != constants.NotificationDurationMs {
		t.Errorf("payload = %+v", got)
	}
}

type stubNotifier struct {
	err   error
	calls int
}

func (s *stubNotifier) Notify(title, body string) error {
	s.calls++
	return s.err
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name          string
		primaryErr    error
		secondaryErr  error
		wantSecondary int
		wantErr       bool
	}{
		{"primary succeeds", nil, nil, 0, false},
		{"falls back", ErrTrayNotRunning, nil, 1, false},
		{"both fail", ErrTrayNotRunning, errors.New("closed"), 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &stubNotifier{err: tt.primaryErr}
			secondary := &stubNotifier{err: tt.secondaryErr}
			err := Fallback{Primary: primary, Secondary: secondary}.Notify("t", "b")
			if (err != nil) != tt.wantErr {
				t.Errorf("Notify() error = %v, wantErr %v", err, tt.wantErr)
			}
			if secondary.calls != tt.wantSecondary {
				t.Errorf("secondary called %d times, want %d", secondary.calls, tt.wantSecondary)
			}
		})
	}
}

func TestConsoleNotify(t *testing.T) {
	var buf strings.Builder
	c := Console{W: &buf, Now: func() time.Time { return time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC) }}

	if err := c.Notify("Habit Reminder", "Time for Read!"); err != nil {
		t.Fatalf("Notify() error = %v", err)
	}
	out := buf.String()
	for _, want := range []string{"[09:00]", "Habit Reminder", "Time for Read!"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}
