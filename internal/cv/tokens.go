package cv

import (
	"strings"
	"sync"
	"unicode"

	tiktoken "github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

const charsPerToken = 4

var (
	encOnce sync.Once
	enc     *tiktoken.Tiktoken
)

// encoding returns cl100k_base, or nil when the BPE ranks cannot be loaded.
// Callers then estimate four characters per token.
func encoding() *tiktoken.Tiktoken {
	encOnce.Do(func() {
		e, err := tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			zap.L().Warn("tiktoken unavailable, estimating tokens by length", zap.Error(err))
			return
		}
		enc = e
	})
	return enc
}

func CountTokens(text string) int {
	if e := encoding(); e != nil {
		return len(e.Encode(text, nil, nil))
	}
	return (len([]rune(text)) + charsPerToken - 1) / charsPerToken
}

// TruncateToTokens cuts text to at most maxTokens tokens, backing off to the
// last whitespace so no word is split.
func TruncateToTokens(text string, maxTokens int) (string, bool) {
	if maxTokens <= 0 {
		return text, false
	}

	var cut string
	if e := encoding(); e != nil {
		tokens := e.Encode(text, nil, nil)
		if len(tokens) <= maxTokens {
			return text, false
		}
		cut = strings.ToValidUTF8(e.Decode(tokens[:maxTokens]), "")
	} else {
		runes := []rune(text)
		limit := maxTokens * charsPerToken
		if len(runes) <= limit {
			return text, false
		}
		cut = string(runes[:limit])
	}

	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > len(cut)/2 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut), true
}
