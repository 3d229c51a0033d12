// Package content holds the static presentational material of the guide:
// dialogue, scene bodies, code samples, webhook payloads and comparison
// tables. Navigation never depends on it.
package content

import (
	"context"
	_ "embed"
	errs "errors"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ErrNoContent is returned for scene ids without authored content.
var ErrNoContent = errs.New("no content for scene")

//go:embed scenes.yaml
var scenesYAML []byte

// Emotion is the guide's mood for a dialogue line.
type Emotion string

const (
	EmotionNeutral     Emotion = "neutral"
	EmotionExcited     Emotion = "excited"
	EmotionThinking    Emotion = "thinking"
	EmotionCelebrating Emotion = "celebrating"
	EmotionWarning     Emotion = "warning"
	EmotionWinking     Emotion = "winking"
)

// Glyph is the small marker printed in front of a dialogue line.
func (e Emotion) Glyph() string {
	switch e {
	case EmotionExcited:
		return "✨"
	case EmotionThinking:
		return "🤔"
	case EmotionCelebrating:
		return "🎉"
	case EmotionWarning:
		return "⚠️"
	case EmotionWinking:
		return "😉"
	default:
		return "💬"
	}
}

type Line struct {
	Text    string  `yaml:"text"`
	Emotion Emotion `yaml:"emotion"`
}

type CodeExample struct {
	Title       string         `yaml:"title"`
	Language    string         `yaml:"language"`
	Code        string         `yaml:"code"`
	Annotations map[int]string `yaml:"annotations"`
}

type WebhookEvent struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
	When        string `yaml:"when"`
	Payload     string `yaml:"payload"`
}

// Extra names a generated section appended to a scene body.
type Extra string

const (
	ExtraNone         Extra = ""
	ExtraMatrix       Extra = "matrix"
	ExtraFeatures     Extra = "features"
	ExtraUIComparison Extra = "ui-comparison"
	ExtraSummary      Extra = "summary"
	ExtraStateMachine Extra = "state-machine"
)

// Scene is the resolved content of one scene.
type Scene struct {
	ID       string         `yaml:"-"`
	Title    string         `yaml:"-"`
	Guide    []Line         `yaml:"guide"`
	Body     string         `yaml:"body"`
	Extra    Extra          `yaml:"extra"`
	Code     []CodeExample  `yaml:"code"`
	Webhooks []WebhookEvent `yaml:"webhooks"`
}

// Loader resolves scene content by id.
type Loader interface {
	Load(ctx context.Context, sceneID string) (Scene, error)
}

// Library is a Loader over a YAML document. The document is parsed on first
// use; Library is safe for concurrent use.
type Library struct {
	raw    []byte
	once   sync.Once
	scenes map[string]Scene
	err    error
}

// NewLibrary returns the library of the shipped guide content.
func NewLibrary() *Library { return NewLibraryFrom(scenesYAML) }

// NewLibraryFrom builds a library over raw YAML keyed by scene id.
func NewLibraryFrom(raw []byte) *Library { return &Library{raw: raw} }

func (l *Library) parse() {
	var scenes map[string]Scene
	if err := yaml.Unmarshal(l.raw, &scenes); err != nil {
		l.err = errors.Wrap(err, "decode scene content")
		return
	}
	for id, sc := range scenes {
		sc.ID = id
		sc.Title = Title(id)
		scenes[id] = sc
	}
	l.scenes = scenes
}

// Load returns the content for sceneID.
func (l *Library) Load(ctx context.Context, sceneID string) (Scene, error) {
	if err := ctx.Err(); err != nil {
		return Scene{}, err
	}
	l.once.Do(l.parse)
	if l.err != nil {
		return Scene{}, l.err
	}
	sc, ok := l.scenes[sceneID]
	if !ok {
		return Scene{}, errors.Wrapf(ErrNoContent, "scene %q", sceneID)
	}
	sc.Guide = append([]Line(nil), sc.Guide...)
	sc.Code = append([]CodeExample(nil), sc.Code...)
	sc.Webhooks = append([]WebhookEvent(nil), sc.Webhooks...)
	return sc, nil
}

// IDs lists the scene ids that have content.
func (l *Library) IDs() ([]string, error) {
	l.once.Do(l.parse)
	if l.err != nil {
		return nil, l.err
	}
	out := make([]string, 0, len(l.scenes))
	for id := range l.scenes {
		out = append(out, id)
	}
	return out, nil
}
