// Package network holds the static adjacency of the transit network and answers
// adjacency and unweighted shortest path queries over it.
package network

import (
	"fmt"
	"io"

	"github.com/travigo/trainpredict/pkg/ctdf"
	"gopkg.in/yaml.v3"
)

type Graph struct {
	neighbours map[ctdf.Location][]ctdf.Location
	adjacent   map[ctdf.Location]map[ctdf.Location]struct{}

	equivalents         map[ctdf.Location]ctdf.Location
	platformInsensitive map[string]bool
}

type Option func(*Graph)

// WithEquivalents treats each key location as the same physical stop as its value, e.g. the two
// directional platforms of a terminus
func WithEquivalents(equivalents map[string]string) Option {
	return func(g *Graph) {
		for code, canonical := range equivalents {
			g.equivalents[ctdf.ParseLocation(code)] = ctdf.ParseLocation(canonical)
		}
	}
}

// WithPlatformInsensitive makes every platform of the given stations the same location
func WithPlatformInsensitive(stations ...string) Option {
	return func(g *Graph) {
		for _, station := range stations {
			g.platformInsensitive[station] = true
		}
	}
}

// NewGraph builds the graph from an adjacency document of location code to the ordered list of
// adjacent location codes. The list order is the order neighbours are searched in.
func NewGraph(adjacency map[string][]string, opts ...Option) *Graph {
	g := &Graph{
		neighbours:          map[ctdf.Location][]ctdf.Location{},
		adjacent:            map[ctdf.Location]map[ctdf.Location]struct{}{},
		equivalents:         map[ctdf.Location]ctdf.Location{},
		platformInsensitive: map[string]bool{},
	}

	for _, opt := range opts {
		opt(g)
	}

	for code, adjacentCodes := range adjacency {
		from := g.Normalise(ctdf.ParseLocation(code))

		if g.adjacent[from] == nil {
			g.adjacent[from] = map[ctdf.Location]struct{}{}
		}

		for _, adjacentCode := range adjacentCodes {
			to := g.Normalise(ctdf.ParseLocation(adjacentCode))
			if _, exists := g.adjacent[from][to]; exists {
				continue
			}

			g.adjacent[from][to] = struct{}{}
			g.neighbours[from] = append(g.neighbours[from], to)
		}
	}

	return g
}

// LoadGraph decodes a YAML or JSON adjacency document
func LoadGraph(reader io.Reader, opts ...Option) (*Graph, error) {
	var adjacency map[string][]string

	if err := yaml.NewDecoder(reader).Decode(&adjacency); err != nil {
		return nil, fmt.Errorf("decoding network adjacency: %w", err)
	}

	if len(adjacency) == 0 {
		return nil, fmt.Errorf("network adjacency document is empty")
	}

	return NewGraph(adjacency, opts...), nil
}

// Size is the number of locations with outgoing adjacency
func (g *Graph) Size() int {
	return len(g.adjacent)
}

// Normalise drops the platform of platform insensitive stations
func (g *Graph) Normalise(location ctdf.Location) ctdf.Location {
	if g.platformInsensitive[location.Station] {
		return location.WithoutPlatform()
	}

	return location
}

// Canonical maps a location onto the representative of its equivalence group
func (g *Graph) Canonical(location ctdf.Location) ctdf.Location {
	location = g.Normalise(location)

	if canonical, exists := g.equivalents[location]; exists {
		return canonical
	}

	return location
}

func (g *Graph) Equivalent(a ctdf.Location, b ctdf.Location) bool {
	return g.Canonical(a) == g.Canonical(b)
}

func (g *Graph) IsAdjacent(from ctdf.Location, to ctdf.Location) bool {
	_, exists := g.adjacent[g.Normalise(from)][g.Normalise(to)]

	return exists
}

func (g *Graph) Neighbours(location ctdf.Location) []ctdf.Location {
	return g.neighbours[g.Normalise(location)]
}

// ShortestPath runs a breadth first search and returns the locations after from up to and
// including the first one found equivalent to to
func (g *Graph) ShortestPath(from ctdf.Location, to ctdf.Location) ([]ctdf.Location, bool) {
	from = g.Normalise(from)

	if g.Equivalent(from, to) {
		return []ctdf.Location{}, true
	}

	previous := map[ctdf.Location]ctdf.Location{}
	visited := map[ctdf.Location]bool{from: true}
	queue := []ctdf.Location{from}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range g.neighbours[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			previous[next] = current

			if g.Equivalent(next, to) {
				return backtrack(previous, from, next), true
			}

			queue = append(queue, next)
		}
	}

	return nil, false
}

func backtrack(previous map[ctdf.Location]ctdf.Location, from ctdf.Location, to ctdf.Location) []ctdf.Location {
	var path []ctdf.Location

	for current := to; current != from; current = previous[current] {
		path = append([]ctdf.Location{current}, path...)
	}

	return path
}
