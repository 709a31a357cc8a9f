package autorun

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/IvanShishkin/winsentry/pkg/models"
	"go.uber.org/zap"
)

const signedOutput = "c:\\windows\\notepad.exe:\r\n\tVerified:\tSigned\r\n\tSigning date:\t4:12 AM 5/7/2022\r\n\tPublisher:\tMicrosoft Windows\r\n\tCompany:\tMicrosoft Corporation\r\n"

const unsignedOutput = "c:\\tools\\thing.exe:\r\n\tVerified:\tUnsigned\r\n\tLink date:\t1:00 PM 1/1/2020\r\n\tPublisher:\tn/a\r\n"

type stubRunner struct {
	out   string
	err   error
	calls int
}

func (s *stubRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	s.calls++
	return s.out, s.err
}

func TestParseSigcheckOutput(t *testing.T) {
	tests := []struct {
		name          string
		output        string
		wantVerified  bool
		wantPublisher string
	}{
		{"Signed", signedOutput, true, "Microsoft Windows"},
		{"Unsigned", unsignedOutput, false, "n/a"},
		{"Empty", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verified, publisher := ParseSigcheckOutput(tt.output)
			if verified != tt.wantVerified || publisher != tt.wantPublisher {
				t.Errorf("ParseSigcheckOutput() = (%v, %q), want (%v, %q)", verified, publisher, tt.wantVerified, tt.wantPublisher)
			}
		})
	}
}

func installFakeSigcheck(t *testing.T) string {
	t.Helper()
	t.Chdir(t.TempDir())
	binDir := t.TempDir()
	tool := filepath.Join(binDir, "sigcheck.exe")
	if err := os.WriteFile(tool, []byte("stub"), 0755); err != nil {
		t.Fatalf("Failed to create fake tool: %v", err)
	}
	t.Setenv("PATH", binDir)
	return tool
}

func TestFindSigcheck(t *testing.T) {
	tool := installFakeSigcheck(t)

	got, err := FindSigcheck("")
	if err != nil {
		t.Fatalf("FindSigcheck() error = %v", err)
	}
	if got != tool {
		t.Errorf("FindSigcheck() = %v, want %v", got, tool)
	}

	if _, err := FindSigcheck(filepath.Join(t.TempDir(), "missing.exe")); !errors.Is(err, models.ErrToolUnavailable) {
		t.Errorf("FindSigcheck(missing) error = %v, want ErrToolUnavailable", err)
	}
}

func TestFindSigcheck_NotInstalled(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PATH", t.TempDir())

	if _, err := FindSigcheck(""); !errors.Is(err, models.ErrToolUnavailable) {
		t.Errorf("FindSigcheck() error = %v, want ErrToolUnavailable", err)
	}
}

func TestVerifier_Verify(t *testing.T) {
	installFakeSigcheck(t)

	tests := []struct {
		name   string
		runner *stubRunner
		want   models.SignatureVerdict
	}{
		{
			"Signed and verified",
			&stubRunner{out: signedOutput},
			models.SignatureVerdict{Signed: true, Verified: true, Publisher: "Microsoft Windows", Method: models.MethodExternalTool},
		},
		{
			"Unsigned",
			&stubRunner{out: unsignedOutput},
			models.SignatureVerdict{Publisher: "n/a", Method: models.MethodExternalTool},
		},
		{
			"Tool fails",
			&stubRunner{err: errors.New("exit status 1")},
			models.UnverifiableVerdict(),
		},
		{
			"Unrecognised output",
			&stubRunner{out: "Sigcheck v2.90 - usage"},
			models.UnverifiableVerdict(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewVerifier("", tt.runner, zap.NewNop())
			got := v.Verify(context.Background(), `C:\Windows\notepad.exe`)
			if got != tt.want {
				t.Errorf("Verify() = %+v, want %+v", got, tt.want)
			}
			if got.Verified && !got.Signed {
				t.Error("Verify() returned verified but unsigned")
			}
		})
	}
}

func TestVerifier_ToolMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PATH", t.TempDir())

	runner := &stubRunner{out: signedOutput}
	v := NewVerifier("", runner, zap.NewNop())

	got := v.Verify(context.Background(), `C:\x.exe`)
	if got != models.UnverifiableVerdict() {
		t.Errorf("Verify() = %+v, want Unverifiable", got)
	}
	if got.Publisher != "Unverifiable" || got.Signed || got.Verified {
		t.Errorf("fallback verdict = %+v", got)
	}
	if runner.calls != 0 {
		t.Errorf("runner called %d times without a tool", runner.calls)
	}
}
