package export

import (
	"context"
	"strings"
	"testing"

	"github.com/san-kum/seqsim/internal/bake"
	"github.com/san-kum/seqsim/internal/catalog"
	"github.com/san-kum/seqsim/internal/sequencer"
)

func TestPathsToSVG(t *testing.T) {
	res, err := bake.New(catalog.Flyby()).Run(context.Background(), bake.Config{Dt: 0.5, Duration: 10, Settings: sequencer.DefaultSettings()})
	if err != nil {
		t.Fatalf("bake failed: %v", err)
	}

	svg := PathsToSVG(res, 400, 300)
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>") {
		t.Fatalf("expected a complete svg document")
	}
	for _, name := range res.Entities() {
		if !strings.Contains(svg, `<g id="`+name+`">`) {
			t.Errorf("expected a group for %s", name)
		}
	}
	// beacon sorts before drone and takes the first palette color
	if !strings.Contains(svg, `<g id="beacon">
<path fill="none" stroke="#00bfff"`) {
		t.Errorf("expected beacon in deepskyblue")
	}
}

func TestPathsToSVGEmpty(t *testing.T) {
	svg := PathsToSVG(&bake.Result{}, 10, 10)
	if strings.Contains(svg, "<path") {
		t.Error("expected no paths for an empty result")
	}
}
