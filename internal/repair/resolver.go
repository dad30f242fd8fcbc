package repair

import (
	"context"
	"fmt"
	"strings"

	"github.com/wenku-io/docx2markdown/internal/llm"
	"github.com/wenku-io/docx2markdown/internal/prompt"
)

// Block describes one fenced code block under repair.
type Block struct {
	Index    int    // 1-based position in the document
	Language string // current language spec, possibly "lang title"
	Code     string
}

// Resolver decides the fence language spec for a block. damaged reports that
// the block carried no usable language and one has to be supplied; for intact
// blocks the resolver may keep, change or clear the language. An empty result
// on a damaged block falls back to the session default.
type Resolver interface {
	Resolve(ctx context.Context, b Block, damaged bool) (string, error)
}

// FixedResolver assigns the same language to every block. An empty Language
// removes the identifier everywhere.
type FixedResolver struct {
	Language string
}

func (r *FixedResolver) Resolve(ctx context.Context, b Block, damaged bool) (string, error) {
	return r.Language, nil
}

// AutoResolver keeps intact blocks as they are and guesses the language of
// damaged blocks from their content.
type AutoResolver struct {
	Default string
}

func (r *AutoResolver) Resolve(ctx context.Context, b Block, damaged bool) (string, error) {
	if !damaged {
		return b.Language, nil
	}
	if lang := AnalyseLanguage(b.Code); lang != "" {
		return lang, nil
	}
	return r.Default, nil
}

// Interactive choice values. "none" is not a known language and cannot
// collide with a real identifier.
const (
	choiceKeep  = "keep"
	choiceNone  = "none"
	choiceOther = "other"
)

// InteractiveResolver asks the user about every intact block and auto-fixes
// damaged ones the way AutoResolver does.
type InteractiveResolver struct {
	Prompter prompt.Prompter
	Default  string
}

func (r *InteractiveResolver) Resolve(ctx context.Context, b Block, damaged bool) (string, error) {
	if damaged {
		if lang := AnalyseLanguage(b.Code); lang != "" {
			return lang, nil
		}
		return r.Default, nil
	}

	display := b.Language
	if display == "" {
		display = "未指定"
	}
	title := fmt.Sprintf("第 %d 个代码块 (原语言: %s)\n%s", b.Index, display, snippet(b.Code))

	options := []prompt.Option{
		{Label: fmt.Sprintf("保留原样 (%s)", display), Value: choiceKeep},
	}
	if guess := AnalyseLanguage(b.Code); guess != "" && guess != b.Language {
		options = append(options, prompt.Option{Label: fmt.Sprintf("识别结果: %s", guess), Value: guess})
	}
	options = append(options,
		prompt.Option{Label: "移除语言标识", Value: choiceNone},
		prompt.Option{Label: "手动输入", Value: choiceOther},
	)

	choice, err := r.Prompter.Select(title, options)
	if err != nil {
		return "", err
	}
	switch choice {
	case choiceKeep:
		return b.Language, nil
	case choiceNone:
		return "", nil
	case choiceOther:
		lang, err := r.Prompter.Input("请输入此代码块的语言", "例如: java, python, c")
		if err != nil {
			return "", err
		}
		lang = strings.ToLower(strings.TrimSpace(lang))
		if lang == choiceNone {
			return "", nil
		}
		if lang == "" {
			return b.Language, nil
		}
		return lang, nil
	default:
		return choice, nil
	}
}

// snippet returns the first lines of a code body for display.
func snippet(code string) string {
	lines := strings.Split(code, "\n")
	if len(lines) > 7 {
		lines = append(lines[:7], "...")
	}
	return strings.Join(lines, "\n")
}

// LLMResolver keeps intact blocks and asks a language-model provider about
// damaged ones.
type LLMResolver struct {
	Provider llm.Provider
	Default  string
	Options  llm.DetectOptions
}

func (r *LLMResolver) Resolve(ctx context.Context, b Block, damaged bool) (string, error) {
	if !damaged {
		return b.Language, nil
	}

	opts := r.Options
	if opts.MaxTokens == 0 {
		opts = llm.DefaultDetectOptions()
	}
	if len(opts.Candidates) == 0 {
		opts.Candidates = KnownLanguageList()
	}

	result, err := r.Provider.DetectLanguage(ctx, b.Code, opts)
	if err != nil {
		return "", fmt.Errorf("language detection failed for block %d: %w", b.Index, err)
	}
	if result.Language == "" {
		return r.Default, nil
	}
	return result.Language, nil
}
