package safety

import (
	"strings"
	"testing"

	"github.com/ashwch/bol/internal/intent"
)

func TestRedactTextMasksPII(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "my aadhaar is 1234 5678 9012", want: "my aadhaar is XXXX-XXXX-9012"},
		{in: "aadhaar 123456789012.", want: "aadhaar XXXX-XXXX-9012."},
		{in: "call 98765 43210 now", want: "call XXXXXX3210 now"},
		{in: "mobile +91 9876543210", want: "mobile XXXXXX3210"},
		{in: "email is rahul@x.com", want: "email is <email>"},
		{in: "my password is hunter2", want: "my password is <redacted>"},
		{in: "पासवर्ड abc123", want: "पासवर्ड <redacted>"},
		{in: "password: hunter2", want: "password: <redacted>"},
		{in: "api_key=abc123", want: "api_key=<redacted>"},
	}
	for _, tc := range cases {
		if got := RedactText(tc.in); got != tc.want {
			t.Fatalf("RedactText(%q)=%q want=%q", tc.in, got, tc.want)
		}
	}
}

func TestRedactTextLeavesRegularCommands(t *testing.T) {
	for _, input := range []string{"open dashboard", "set height to 170", "मंडी भाव दिखाओ", "passport office"} {
		if got := RedactText(input); got != input {
			t.Fatalf("expected %q unchanged, got %q", input, got)
		}
	}
}

func TestRedactValue(t *testing.T) {
	cases := []struct {
		field string
		value string
		want  string
	}{
		{field: "password", value: "secret123", want: "<redacted>"},
		{field: "aadhaar", value: "123456789012", want: "XXXXXXXX9012"},
		{field: "mobile", value: "9876543210", want: "XXXXXX3210"},
		{field: "mobile", value: "123", want: "XXX"},
		{field: "email", value: "rahul@x.com", want: "r***@x.com"},
		{field: "email", value: "not-an-email", want: "<redacted>"},
		{field: "height", value: "170", want: "170"},
		{field: "password", value: "", want: ""},
	}
	for _, tc := range cases {
		if got := RedactValue(tc.field, tc.value); got != tc.want {
			t.Fatalf("RedactValue(%q, %q)=%q want=%q", tc.field, tc.value, got, tc.want)
		}
	}
}

func TestRedactResultCopiesAndMasks(t *testing.T) {
	action := intent.Multi(
		intent.Fill("email", "rahul@x.com"),
		intent.Fill("password", "secret123"),
		intent.Click("submit"),
	)
	original := intent.Result{Action: &action, Feedback: "Logging you in"}

	got := RedactResult(original)
	if got.Action.Actions[0].Value != "r***@x.com" || got.Action.Actions[1].Value != "<redacted>" {
		t.Fatalf("unexpected redacted actions %#v", got.Action.Actions)
	}
	if got.Action.Actions[2].Target != "submit" {
		t.Fatalf("click target must survive redaction, got %#v", got.Action.Actions[2])
	}
	if original.Action.Actions[1].Value != "secret123" {
		t.Fatalf("RedactResult must not modify its input")
	}

	nav := intent.Result{TargetPath: intent.PathTarget("/dashboard"), Feedback: "Opening Dashboard"}
	if RedactResult(nav) != nav {
		t.Fatalf("navigation results carry nothing to redact")
	}
}

func TestRedactTranscriptMasksExtractedValues(t *testing.T) {
	action := intent.Multi(
		intent.Fill("email", "rahul@x.com"),
		intent.Fill("password", "secret123"),
		intent.Click("submit"),
	)
	result := intent.Result{Action: &action}

	got := RedactTranscript("login with rahul@x.com and secret123", result)
	if got != "login with <redacted> and <redacted>" {
		t.Fatalf("unexpected redacted transcript %q", got)
	}

	fill := intent.Fill("password", "a")
	got = RedactTranscript("my password is a banana", intent.Result{Action: &fill})
	if !strings.Contains(got, "banana") {
		t.Fatalf("short values must only be masked as whole words, got %q", got)
	}
}
