package datasource

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/travigo/trainpredict/pkg/network"
)

// LoadNetwork reads the adjacency document from an http(s) URL or a local file
func LoadNetwork(ctx context.Context, source string, opts ...network.Option) (*network.Graph, error) {
	var reader io.Reader

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, err
		}

		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, source, resp.StatusCode)
		}

		reader = resp.Body
	} else {
		file, err := os.Open(source)
		if err != nil {
			return nil, err
		}
		defer file.Close()

		reader = file
	}

	graph, err := network.LoadGraph(reader, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading network %s: %w", source, err)
	}

	log.Info().Str("source", source).Int("locations", graph.Size()).Msg("Loaded network")

	return graph, nil
}
