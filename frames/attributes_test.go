package frames

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseSandboxTokensFiltersUnknown(t *testing.T) {
	tokens := ParseSandboxTokens([]string{"allow-scripts", "allow-hacking", "allow-forms"})
	want := []string{"allow-scripts", "allow-forms"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
}

func TestParseSandboxTokensAcceptsString(t *testing.T) {
	tokens := ParseSandboxTokens("allow-scripts   allow-popups\tallow-unknown")
	want := []string{"allow-scripts", "allow-popups"}
	if !reflect.DeepEqual(tokens, want) {
		t.Fatalf("expected %v, got %v", want, tokens)
	}
}

func TestParseSandboxTokensNilInput(t *testing.T) {
	if tokens := ParseSandboxTokens(nil); len(tokens) != 0 {
		t.Fatalf("expected empty result, got %v", tokens)
	}
}

func TestParseSandboxTokensStaysInsideVocabulary(t *testing.T) {
	inputs := []any{
		"allow-scripts; allow-everything <script>",
		[]string{"", "   ", "ALLOW-SCRIPTS", "allow-scripts"},
		[]any{"allow-forms", 42, true},
	}
	valid := map[string]bool{}
	for _, token := range ValidSandboxTokens {
		valid[token] = true
	}
	for _, input := range inputs {
		for _, token := range ParseSandboxTokens(input) {
			if !valid[token] {
				t.Fatalf("token %q escaped the vocabulary for input %v", token, input)
			}
		}
	}
}

func TestParseAllowDirectivesKeepsOriginLists(t *testing.T) {
	directives := ParseAllowDirectives([]string{"camera 'self'", "microphone", "drone-control"})
	want := []string{"camera 'self'", "microphone"}
	if !reflect.DeepEqual(directives, want) {
		t.Fatalf("expected %v, got %v", want, directives)
	}
}

func TestParseAllowDirectivesSplitsStringInput(t *testing.T) {
	directives := ParseAllowDirectives("camera; microphone geolocation")
	want := []string{"camera", "microphone", "geolocation"}
	if !reflect.DeepEqual(directives, want) {
		t.Fatalf("expected %v, got %v", want, directives)
	}
}

func TestBuildAllowAttribute(t *testing.T) {
	got := BuildAllowAttribute([]string{"camera", "microphone", "geolocation"})
	if got != "camera; microphone; geolocation" {
		t.Fatalf("unexpected allow attribute: %q", got)
	}
	if BuildAllowAttribute(nil) != "" {
		t.Fatal("empty input must yield empty attribute")
	}
}

func TestBuildSandboxAttribute(t *testing.T) {
	got := BuildSandboxAttribute([]string{"allow-scripts", "allow-forms"})
	if got != "allow-scripts allow-forms" {
		t.Fatalf("unexpected sandbox attribute: %q", got)
	}
	if BuildSandboxAttribute(nil) != "" {
		t.Fatal("empty input must yield empty attribute")
	}
}

func TestValidateSandboxSecuritySameOriginWithScripts(t *testing.T) {
	result := ValidateSandboxSecurity([]string{"allow-same-origin", "allow-scripts"}, "https://example.com")
	if result.IsSecure {
		t.Fatal("expected insecure result")
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected exactly one warning, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "allow-same-origin") || !strings.Contains(result.Warnings[0], "allow-scripts") {
		t.Fatalf("warning must name both tokens: %q", result.Warnings[0])
	}
}

func TestValidateSandboxSecurityDownloadsOverHTTP(t *testing.T) {
	result := ValidateSandboxSecurity([]string{"allow-scripts", "allow-downloads"}, "http://example.com")
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "allow-downloads") || !strings.Contains(result.Warnings[0], "HTTP") {
		t.Fatalf("warning must mention allow-downloads and HTTP: %q", result.Warnings[0])
	}

	result = ValidateSandboxSecurity([]string{"allow-scripts", "allow-downloads"}, "https://example.com")
	if len(result.Warnings) != 0 || !result.IsSecure {
		t.Fatalf("expected no warnings over https, got %v", result.Warnings)
	}
}

func TestValidateSandboxSecurityTopNavigation(t *testing.T) {
	result := ValidateSandboxSecurity([]string{"allow-top-navigation"}, "https://example.com")
	if result.IsSecure || len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}
	if !strings.Contains(result.Warnings[0], "allow-top-navigation-by-user-activation") {
		t.Fatalf("warning should recommend the activation-gated variant: %q", result.Warnings[0])
	}
}

func TestBuildIframeAttributesNilFrameReturnsDefaults(t *testing.T) {
	if got := BuildIframeAttributes(nil); !reflect.DeepEqual(got, DefaultAttributes()) {
		t.Fatalf("nil frame must yield defaults, got %+v", got)
	}
}

func TestBuildIframeAttributesFallsBackPerAttribute(t *testing.T) {
	frame := &Frame{
		URL:           "https://example.com",
		SandboxTokens: []string{"allow-scripts"},
		// AllowDirectives empty: whole default allow string applies.
	}
	attrs := BuildIframeAttributes(frame)
	if attrs.Sandbox != "allow-scripts" {
		t.Fatalf("expected parsed sandbox, got %q", attrs.Sandbox)
	}
	if attrs.Allow != DefaultAttributes().Allow {
		t.Fatalf("expected default allow fallback, got %q", attrs.Allow)
	}
	if attrs.Loading != LoadingEager || attrs.ReferrerPolicy != ReferrerStrictOriginWhenCrossOrigin {
		t.Fatalf("expected default loading/referrerpolicy, got %+v", attrs)
	}
}

func TestBuildIframeAttributesRespectsExplicitFalseFullscreen(t *testing.T) {
	off := false
	frame := &Frame{URL: "https://example.com", AllowFullscreen: &off}
	if attrs := BuildIframeAttributes(frame); attrs.AllowFullscreen {
		t.Fatal("explicit false allowfullscreen must be respected")
	}

	frame.AllowFullscreen = nil
	if attrs := BuildIframeAttributes(frame); !attrs.AllowFullscreen {
		t.Fatal("unset allowfullscreen must fall back to default true")
	}
}

func TestBuildIframeAttributesPassThrough(t *testing.T) {
	lazy := LoadingLazy
	policy := ReferrerNoReferrer
	name := "analytics"
	title := "Analytics dashboard"
	csp := "default-src 'self'"
	credentialless := true

	frame := &Frame{
		URL:            "https://example.com",
		Loading:        &lazy,
		ReferrerPolicy: &policy,
		FrameName:      &name,
		FrameTitle:     &title,
		CSP:            &csp,
		Credentialless: &credentialless,
	}
	attrs := BuildIframeAttributes(frame)
	if attrs.Loading != LoadingLazy || attrs.ReferrerPolicy != ReferrerNoReferrer {
		t.Fatalf("expected pass-through loading/referrerpolicy, got %+v", attrs)
	}
	if attrs.Name != name || attrs.Title != title || attrs.CSP != csp || !attrs.Credentialless {
		t.Fatalf("expected pass-through optionals, got %+v", attrs)
	}
}

func TestApplyPresetUnknownFallsBack(t *testing.T) {
	if got := ApplyPreset("does-not-exist"); !reflect.DeepEqual(got, Presets["trusted-internal"]) {
		t.Fatalf("unknown preset must fall back to trusted-internal, got %+v", got)
	}
	if got := ApplyPreset("videoconference"); !strings.Contains(got.Allow, "camera") {
		t.Fatalf("expected videoconference preset to allow camera, got %+v", got)
	}
}
