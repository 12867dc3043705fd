package rodeo

import (
	"embed"
	"io/fs"
	"os"

	"github.com/arthur-debert/rodeo/pkg/cobrax/topics"
	"github.com/arthur-debert/rodeo/pkg/ui"
)

//go:embed topics/*.md
var topicFiles embed.FS

// newTopicManager loads the embedded help topics. Markdown is rendered with
// glamour when stdout is a color terminal.
func newTopicManager() (*topics.TopicManager, error) {
	sub, err := fs.Sub(topicFiles, "topics")
	if err != nil {
		return nil, err
	}

	opts := topics.Options{Extensions: []string{".md"}}
	if ui.DetectFormat(os.Stdout) == ui.FormatTerminal {
		opts.Renderer = topics.NewGlamourRenderer()
	}
	return topics.New(sub, opts)
}
