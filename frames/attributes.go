package frames

import "strings"

// ValidSandboxTokens is the complete set of capability tokens the iframe
// sandbox attribute accepts. Unknown tokens are dropped during parsing, never
// passed through to markup.
var ValidSandboxTokens = []string{
	"allow-downloads",
	"allow-forms",
	"allow-modals",
	"allow-orientation-lock",
	"allow-pointer-lock",
	"allow-popups",
	"allow-popups-to-escape-sandbox",
	"allow-presentation",
	"allow-same-origin",
	"allow-scripts",
	"allow-storage-access-by-user-activation",
	"allow-top-navigation",
	"allow-top-navigation-by-user-activation",
	"allow-top-navigation-to-custom-protocols",
}

// ValidAllowDirectives is the complete set of Permissions-Policy feature
// names the allow attribute accepts. A directive may carry a trailing origin
// list ("camera 'self'"); only the leading word is checked against this set.
var ValidAllowDirectives = []string{
	"accelerometer",
	"ambient-light-sensor",
	"autoplay",
	"battery",
	"camera",
	"display-capture",
	"document-domain",
	"encrypted-media",
	"fullscreen",
	"gamepad",
	"geolocation",
	"gyroscope",
	"hid",
	"identity-credentials-get",
	"idle-detection",
	"local-fonts",
	"magnetometer",
	"microphone",
	"midi",
	"otp-credentials",
	"payment",
	"picture-in-picture",
	"publickey-credentials-create",
	"publickey-credentials-get",
	"screen-wake-lock",
	"serial",
	"speaker-selection",
	"usb",
	"web-share",
	"xr-spatial-tracking",
	"clipboard-write",
}

var (
	validSandboxSet = toSet(ValidSandboxTokens)
	validAllowSet   = toSet(ValidAllowDirectives)
)

// IframeAttributes is the rendered attribute set for a frame's iframe tag.
// Empty optional strings mean the attribute is omitted from markup.
type IframeAttributes struct {
	Sandbox         string         `json:"sandbox,omitempty"`
	Allow           string         `json:"allow,omitempty"`
	Loading         LoadingMode    `json:"loading,omitempty"`
	ReferrerPolicy  ReferrerPolicy `json:"referrerpolicy,omitempty"`
	AllowFullscreen bool           `json:"allowfullscreen"`
	Credentialless  bool           `json:"credentialless,omitempty"`
	Name            string         `json:"name,omitempty"`
	Title           string         `json:"title,omitempty"`
	CSP             string         `json:"csp,omitempty"`
}

// DefaultAttributes returns the attribute set applied when a frame carries no
// configuration of its own.
func DefaultAttributes() IframeAttributes {
	return IframeAttributes{
		Sandbox:         "allow-scripts allow-same-origin allow-forms allow-popups allow-popups-to-escape-sandbox",
		Allow:           "accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture",
		Loading:         LoadingEager,
		ReferrerPolicy:  ReferrerStrictOriginWhenCrossOrigin,
		AllowFullscreen: true,
	}
}

// Preset is a ready-made sandbox/allow pairing for a common embedding case.
type Preset struct {
	Sandbox string `json:"sandbox"`
	Allow   string `json:"allow"`
}

// Presets enumerates the starting points offered to editors. They are never
// applied automatically.
var Presets = map[string]Preset{
	"trusted-internal": {
		Sandbox: "allow-scripts allow-same-origin allow-forms allow-popups allow-popups-to-escape-sandbox allow-downloads allow-modals",
		Allow:   "clipboard-write; encrypted-media; picture-in-picture; fullscreen",
	},
	"dashboard-bi": {
		Sandbox: "allow-scripts allow-same-origin allow-forms allow-popups allow-popups-to-escape-sandbox allow-downloads",
		Allow:   "clipboard-write; encrypted-media; picture-in-picture",
	},
	"videoconference": {
		Sandbox: "allow-scripts allow-same-origin allow-forms allow-popups",
		Allow:   "camera; microphone; display-capture; autoplay; fullscreen",
	},
	"external-trusted": {
		Sandbox: "allow-scripts allow-same-origin allow-forms allow-popups-to-escape-sandbox",
		Allow:   "encrypted-media; picture-in-picture",
	},
	"untrusted": {
		Sandbox: "allow-scripts allow-forms",
		Allow:   "",
	},
	"view-only": {
		Sandbox: "",
		Allow:   "",
	},
}

// ApplyPreset returns the named preset, falling back to "trusted-internal"
// when the name is unknown.
func ApplyPreset(name string) Preset {
	if preset, ok := Presets[name]; ok {
		return preset
	}
	return Presets["trusted-internal"]
}

// ParseSandboxTokens normalizes stored sandbox configuration into the known
// token vocabulary. Input may be a []string, a whitespace-delimited string, a
// []any of strings, or nil. Unknown tokens are dropped silently.
func ParseSandboxTokens(input any) []string {
	candidates := splitCandidates(input, nil)
	tokens := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		if _, ok := validSandboxSet[candidate]; ok {
			tokens = append(tokens, candidate)
		}
	}
	return tokens
}

// ParseAllowDirectives normalizes stored allow configuration into known
// Permissions-Policy directives. Input may be a []string, a string delimited
// by semicolons or whitespace, a []any of strings, or nil. Each candidate is
// kept verbatim (origin lists included) when its leading word is a known
// directive name.
func ParseAllowDirectives(input any) []string {
	candidates := splitCandidates(input, []rune{';'})
	directives := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		name := candidate
		if idx := strings.IndexFunc(candidate, isSpace); idx >= 0 {
			name = candidate[:idx]
		}
		if _, ok := validAllowSet[name]; ok {
			directives = append(directives, candidate)
		}
	}
	return directives
}

// BuildSandboxAttribute renders the sandbox attribute value.
func BuildSandboxAttribute(tokens []string) string {
	return strings.Join(tokens, " ")
}

// BuildAllowAttribute renders the allow attribute value.
func BuildAllowAttribute(directives []string) string {
	return strings.Join(directives, "; ")
}

// SandboxSecurityResult reports advisory findings for a sandbox configuration.
type SandboxSecurityResult struct {
	IsSecure bool
	Warnings []string
}

// ValidateSandboxSecurity inspects a parsed token set for risky combinations.
// The checks are independent; each appends at most one warning. Findings are
// advisory and never block rendering.
func ValidateSandboxSecurity(tokens []string, url string) SandboxSecurityResult {
	set := toSet(tokens)
	warnings := []string{}

	if _, sameOrigin := set["allow-same-origin"]; sameOrigin {
		if _, scripts := set["allow-scripts"]; scripts {
			warnings = append(warnings,
				`combining "allow-same-origin" with "allow-scripts" can let the embedded page reach the parent DOM; only use it with fully trusted origins`)
		}
	}

	if _, ok := set["allow-top-navigation"]; ok {
		warnings = append(warnings,
			`"allow-top-navigation" lets the embedded page redirect the top window; prefer "allow-top-navigation-by-user-activation"`)
	}

	if _, ok := set["allow-downloads"]; ok {
		if url != "" && !strings.HasPrefix(url, "https://") {
			warnings = append(warnings,
				`"allow-downloads" over plain HTTP is insecure; serve the frame over HTTPS to protect downloads`)
		}
	}

	return SandboxSecurityResult{
		IsSecure: len(warnings) == 0,
		Warnings: warnings,
	}
}

// BuildIframeAttributes converts a frame's stored configuration into the
// final attribute set. A nil frame yields the defaults. Parsed sandbox/allow
// strings fall back to the corresponding default string when empty; this is a
// whole-string fallback, not a merge. AllowFullscreen falls back only when
// unset so an explicit false is respected.
func BuildIframeAttributes(frame *Frame) IframeAttributes {
	defaults := DefaultAttributes()
	if frame == nil {
		return defaults
	}

	attrs := IframeAttributes{
		Sandbox: BuildSandboxAttribute(ParseSandboxTokens(frame.SandboxTokens)),
		Allow:   BuildAllowAttribute(ParseAllowDirectives(frame.AllowDirectives)),
	}
	if attrs.Sandbox == "" {
		attrs.Sandbox = defaults.Sandbox
	}
	if attrs.Allow == "" {
		attrs.Allow = defaults.Allow
	}

	attrs.Loading = defaults.Loading
	if frame.Loading != nil && *frame.Loading != "" {
		attrs.Loading = *frame.Loading
	}
	attrs.ReferrerPolicy = defaults.ReferrerPolicy
	if frame.ReferrerPolicy != nil && *frame.ReferrerPolicy != "" {
		attrs.ReferrerPolicy = *frame.ReferrerPolicy
	}
	attrs.AllowFullscreen = defaults.AllowFullscreen
	if frame.AllowFullscreen != nil {
		attrs.AllowFullscreen = *frame.AllowFullscreen
	}
	if frame.Credentialless != nil {
		attrs.Credentialless = *frame.Credentialless
	}
	if frame.FrameName != nil {
		attrs.Name = *frame.FrameName
	}
	if frame.FrameTitle != nil {
		attrs.Title = *frame.FrameTitle
	}
	if frame.CSP != nil {
		attrs.CSP = *frame.CSP
	}
	return attrs
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, value := range values {
		set[value] = struct{}{}
	}
	return set
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r':
		return true
	default:
		return false
	}
}

// splitCandidates flattens the loosely typed sandbox/allow input shapes into
// trimmed, non-empty candidate strings. extraDelims augments the whitespace
// split applied to raw strings.
func splitCandidates(input any, extraDelims []rune) []string {
	switch value := input.(type) {
	case nil:
		return nil
	case []string:
		return trimAll(value)
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			if str, ok := item.(string); ok {
				out = append(out, str)
			}
		}
		return trimAll(out)
	case string:
		return trimAll(strings.FieldsFunc(value, func(r rune) bool {
			if isSpace(r) {
				return true
			}
			for _, delim := range extraDelims {
				if r == delim {
					return true
				}
			}
			return false
		}))
	default:
		return nil
	}
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
