package web

import (
	_ "embed"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Display-only content for the landing page, directory and analytics.

//go:embed sample_data.yaml
var sampleDataYAML []byte

//go:embed static/app.css
var stylesheet []byte

type testimonial struct {
	Quote   string `yaml:"quote"`
	Author  string `yaml:"author"`
	Company string `yaml:"company"`
}

type sampleInfluencer struct {
	Name           string  `yaml:"name"`
	Handle         string  `yaml:"handle"`
	Niche          string  `yaml:"niche"`
	Platform       string  `yaml:"platform"`
	Followers      int64   `yaml:"followers"`
	EngagementRate float64 `yaml:"engagement_rate"`
}

type monthlyMetric struct {
	Month      string `yaml:"month"`
	Reach      int64  `yaml:"reach"`
	Engagement int64  `yaml:"engagement"`
}

type sampleData struct {
	Testimonials []testimonial      `yaml:"testimonials"`
	Influencers  []sampleInfluencer `yaml:"influencers"`
	Analytics    []monthlyMetric    `yaml:"analytics"`
}

func loadSamples() (sampleData, error) {
	var data sampleData
	if err := yaml.Unmarshal(sampleDataYAML, &data); err != nil {
		return sampleData{}, fmt.Errorf("parse sample data: %w", err)
	}
	return data, nil
}

// influencersByNiche filters the directory. An empty niche keeps everyone.
func (d sampleData) influencersByNiche(niche string) []sampleInfluencer {
	niche = strings.ToLower(strings.TrimSpace(niche))
	out := make([]sampleInfluencer, 0, len(d.Influencers))
	for _, item := range d.Influencers {
		if niche == "" || item.Niche == niche {
			out = append(out, item)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Followers > out[j].Followers
	})
	return out
}

func (d sampleData) niches() []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, item := range d.Influencers {
		if _, ok := seen[item.Niche]; ok {
			continue
		}
		seen[item.Niche] = struct{}{}
		out = append(out, item.Niche)
	}
	sort.Strings(out)
	return out
}

func serveStylesheet(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/css; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(stylesheet)
}
