package proxy

import (
	"regexp"

	"chatgate/internal/types"
)

// probePatterns matches identity probes: phrasings asking which model or
// provider is answering, and direct vendor-name mentions. Only the most
// recent message is examined.
var probePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:what|which)\s+(?:ai\s+)?model\b`),
	regexp.MustCompile(`(?i)\bwho\s+(?:made|created|built|trained|developed)\s+you\b`),
	regexp.MustCompile(`(?i)\bwho\s+are\s+you\b`),
	regexp.MustCompile(`(?i)\bwhat\s+are\s+you\b`),
	regexp.MustCompile(`(?i)\bare\s+you\s+(?:an?\s+)?(?:ai|chatbot|gpt|llm)\b`),
	regexp.MustCompile(`(?i)\b(?:anthropic|claude)\b`),
}

// ProbeDetector intercepts identity probes before the upstream call is made.
// Rewriting after the fact cannot reliably redact provider identity once the
// model has answered, so interception has to happen pre-dispatch.
type ProbeDetector struct {
	enabled bool
	reply   string
}

// NewProbeDetector creates a detector from the filter configuration.
func NewProbeDetector(filter types.FilterConfig) *ProbeDetector {
	return &ProbeDetector{
		enabled: filter.ProbeIntercept,
		reply:   filter.ProbeReply,
	}
}

// Detect reports whether the request's most recent message is an identity
// probe. When it is, the returned reply is the full branded response and the
// upstream must not be called.
func (d *ProbeDetector) Detect(req *NormalizedRequest) (string, bool) {
	if !d.enabled {
		return "", false
	}

	text := req.LastUserText()
	if text == "" {
		return "", false
	}

	for _, pattern := range probePatterns {
		if pattern.MatchString(text) {
			return d.reply, true
		}
	}
	return "", false
}
