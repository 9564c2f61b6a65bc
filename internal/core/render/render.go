// Package render substitutes placeholder tokens in reusable text blocks.
//
// Tokens are written {%NAME%}. Rendering is a single pass: a substituted value
// is never scanned again, so a value that itself contains a token is emitted
// verbatim. Values are supplied through a typed Context rather than a loose
// map, which keeps the token set closed.
//
//	block := render.MustCompile("Deploy {%APP_NAME%} to {%ENV_LABEL%}")
//	out, err := block.Render(render.Context{AppName: "orders-api", EnvLabel: "Production"})
//	// out == "Deploy orders-api to Production"
package render

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Token delimiters.
const (
	StartTag = "{%"
	EndTag   = "%}"
)

// Token names, in their fixed order.
const (
	TokenAppUpper = "APP_UPPER"
	TokenAppLower = "APP_LOWER"
	TokenAppName  = "APP_NAME"
	TokenEnvShort = "ENV_SHORT"
	TokenEnvUpper = "ENV_UPPER"
	TokenEnvLabel = "ENV_LABEL"
)

// ErrTemplateRender is wrapped by every TemplateRenderError.
var ErrTemplateRender = errors.New("template render failed")

// TemplateRenderError reports a token that could not be resolved.
type TemplateRenderError struct {
	Token  string
	Reason string
}

func (e *TemplateRenderError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("%s: %s", ErrTemplateRender, e.Reason)
	}
	return fmt.Sprintf("%s: token %s: %s", ErrTemplateRender, e.Token, e.Reason)
}

func (e *TemplateRenderError) Unwrap() error {
	return ErrTemplateRender
}

// =============================================================================
// Context
// =============================================================================

// Context holds the values of every token.
// Application values are mandatory whenever a block references them;
// environment values render as empty strings when unset.
type Context struct {
	AppUpper string
	AppLower string
	AppName  string
	EnvShort string
	EnvUpper string
	EnvLabel string
}

// Tokens returns the token names in their fixed order.
func Tokens() []string {
	return []string{TokenAppUpper, TokenAppLower, TokenAppName, TokenEnvShort, TokenEnvUpper, TokenEnvLabel}
}

// lookup resolves one token against the context.
func (c Context) lookup(token string) (string, error) {
	switch token {
	case TokenAppUpper:
		return mandatory(token, c.AppUpper)
	case TokenAppLower:
		return mandatory(token, c.AppLower)
	case TokenAppName:
		return mandatory(token, c.AppName)
	case TokenEnvShort:
		return c.EnvShort, nil
	case TokenEnvUpper:
		return c.EnvUpper, nil
	case TokenEnvLabel:
		return c.EnvLabel, nil
	default:
		return "", &TemplateRenderError{Token: token, Reason: "unknown token"}
	}
}

func mandatory(token, value string) (string, error) {
	if value == "" {
		return "", &TemplateRenderError{Token: token, Reason: "no value supplied"}
	}
	return value, nil
}

// =============================================================================
// Blocks
// =============================================================================

// Block is a compiled text block ready to be rendered any number of times.
type Block struct {
	text     string
	template *fasttemplate.Template
}

// Compile parses text into a Block. An unterminated token is an error.
func Compile(text string) (*Block, error) {
	tpl, err := fasttemplate.NewTemplate(text, StartTag, EndTag)
	if err != nil {
		return nil, &TemplateRenderError{Reason: err.Error()}
	}
	return &Block{text: text, template: tpl}, nil
}

// MustCompile is like Compile but panics on error. It is meant for blocks
// defined as package-level literals.
func MustCompile(text string) *Block {
	b, err := Compile(text)
	if err != nil {
		panic(err)
	}
	return b
}

// Text returns the uncompiled block text.
func (b *Block) Text() string {
	return b.text
}

// Render substitutes every token in the block with its value from ctx.
func (b *Block) Render(ctx Context) (string, error) {
	return b.template.ExecuteFuncStringWithErr(func(w io.Writer, tag string) (int, error) {
		value, err := ctx.lookup(strings.TrimSpace(tag))
		if err != nil {
			return 0, err
		}
		return w.Write([]byte(value))
	})
}

// Render compiles and renders text in one step.
func Render(text string, ctx Context) (string, error) {
	b, err := Compile(text)
	if err != nil {
		return "", err
	}
	return b.Render(ctx)
}
