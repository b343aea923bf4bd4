package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/musickit/applemusic-go/internal/apierrors"
)

// MediaType names a catalog resource collection.
type MediaType string

// Catalog media types.
const (
	MediaSongs         MediaType = "songs"
	MediaAlbums        MediaType = "albums"
	MediaArtists       MediaType = "artists"
	MediaPlaylists     MediaType = "playlists"
	MediaMusicVideos   MediaType = "music-videos"
	MediaStations      MediaType = "stations"
	MediaAppleCurators MediaType = "apple-curators"
	MediaCurators      MediaType = "curators"
)

// Valid reports whether m is a known media type.
func (m MediaType) Valid() bool {
	switch m {
	case MediaSongs, MediaAlbums, MediaArtists, MediaPlaylists,
		MediaMusicVideos, MediaStations, MediaAppleCurators, MediaCurators:
		return true
	}
	return false
}

// ParseMediaType converts a collection name to a MediaType.
func ParseMediaType(s string) (MediaType, error) {
	m := MediaType(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("unknown media type %q", s)
	}
	return m, nil
}

// SearchParams controls a catalog search.
type SearchParams struct {
	Types  []MediaType
	Limit  int
	Offset int
}

// Page selects a window of a library collection.
type Page struct {
	Limit  int
	Offset int
}

func (p Page) query() Query {
	var q Query
	if p.Limit > 0 {
		q = q.Add("limit", strconv.Itoa(p.Limit))
	}
	if p.Offset > 0 {
		q = q.Add("offset", strconv.Itoa(p.Offset))
	}
	return q
}

const maxResourceIDLength = 100

var resourceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidateResourceID checks that id is 1 to 100 characters of letters,
// digits, '-', '_' or '.'.
func ValidateResourceID(id string) error {
	if id == "" || len(id) > maxResourceIDLength || !resourceIDPattern.MatchString(id) {
		return &apierrors.ConfigError{
			Field: "id",
			Err:   fmt.Errorf("%w: %q", apierrors.ErrInvalidResourceID, id),
		}
	}
	return nil
}

func validateIDs(ids []string) error {
	if len(ids) == 0 {
		return &apierrors.ConfigError{Field: "ids", Err: apierrors.ErrInvalidResourceID}
	}
	for _, id := range ids {
		if err := ValidateResourceID(id); err != nil {
			return err
		}
	}
	return nil
}

func catalogPath(storefront string, parts ...string) string {
	escaped := make([]string, 0, len(parts)+3)
	escaped = append(escaped, "v1", "catalog", url.PathEscape(storefront))
	for _, p := range parts {
		escaped = append(escaped, url.PathEscape(p))
	}
	return "/" + strings.Join(escaped, "/")
}

// Search queries the catalog of storefront for term.
func (c *Client) Search(ctx context.Context, storefront, term string, params SearchParams) (*SearchResponse, error) {
	q := Query{}.Add("term", term)
	if len(params.Types) > 0 {
		types := make([]string, 0, len(params.Types))
		for _, t := range params.Types {
			types = append(types, string(t))
		}
		q = q.Add("types", strings.Join(types, ","))
	}
	if params.Limit > 0 {
		q = q.Add("limit", strconv.Itoa(params.Limit))
	}
	if params.Offset > 0 {
		q = q.Add("offset", strconv.Itoa(params.Offset))
	}

	var result SearchResponse
	spec := RequestSpec{Method: http.MethodGet, Path: catalogPath(storefront, "search"), Query: q}
	if err := c.Do(ctx, spec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchHints returns completion terms for a partial search term.
func (c *Client) SearchHints(ctx context.Context, storefront, term string) (*SearchHintsResponse, error) {
	var result SearchHintsResponse
	spec := RequestSpec{
		Method: http.MethodGet,
		Path:   catalogPath(storefront, "search", "hints"),
		Query:  Query{}.Add("term", term),
	}
	if err := c.Do(ctx, spec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// SearchSuggestions returns term suggestions for a partial search term.
func (c *Client) SearchSuggestions(ctx context.Context, storefront, term string) (*SearchSuggestionsResponse, error) {
	var result SearchSuggestionsResponse
	spec := RequestSpec{
		Method: http.MethodGet,
		Path:   catalogPath(storefront, "search", "suggestions"),
		Query:  Query{}.Add("term", term).Add("kinds", "terms"),
	}
	if err := c.Do(ctx, spec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetCatalogResource fetches a single catalog resource. An empty data
// array is reported as a 404 APIError.
func GetCatalogResource[T any](ctx context.Context, c *Client, storefront string, kind MediaType, id string) (*T, error) {
	if err := ValidateResourceID(id); err != nil {
		return nil, err
	}
	var result DataResponse[T]
	spec := RequestSpec{Method: http.MethodGet, Path: catalogPath(storefront, string(kind), id)}
	if err := c.Do(ctx, spec, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, &apierrors.APIError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("%s %s not found", kind, id),
		}
	}
	return &result.Data[0], nil
}

// GetCatalogResources fetches several catalog resources of one kind by id.
func GetCatalogResources[T any](ctx context.Context, c *Client, storefront string, kind MediaType, ids []string) ([]T, error) {
	if err := validateIDs(ids); err != nil {
		return nil, err
	}
	var result DataResponse[T]
	spec := RequestSpec{
		Method: http.MethodGet,
		Path:   catalogPath(storefront, string(kind)),
		Query:  Query{}.Add("ids", strings.Join(ids, ",")),
	}
	if err := c.Do(ctx, spec, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetLibraryResources lists one page of a library collection. It requires a
// user token; without one the API's rejection is returned unchanged.
func GetLibraryResources[T any](ctx context.Context, c *Client, kind MediaType, page Page) (*DataResponse[T], error) {
	var result DataResponse[T]
	spec := RequestSpec{
		Method: http.MethodGet,
		Path:   "/v1/me/library/" + url.PathEscape(string(kind)),
		Query:  page.query(),
	}
	if err := c.Do(ctx, spec, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// AddToLibrary adds catalog resources of one kind to the user's library.
func (c *Client) AddToLibrary(ctx context.Context, kind MediaType, ids []string) error {
	if !kind.Valid() {
		return &apierrors.ConfigError{Field: "type", Err: fmt.Errorf("unknown media type %q", kind)}
	}
	if err := validateIDs(ids); err != nil {
		return err
	}
	spec := RequestSpec{
		Method: http.MethodPost,
		Path:   "/v1/me/library",
		Query:  Query{}.Add("ids["+string(kind)+"]", strings.Join(ids, ",")),
	}
	return c.Do(ctx, spec, nil)
}

// GetStorefront fetches a single storefront by its 2-letter id.
func (c *Client) GetStorefront(ctx context.Context, id string) (*Storefront, error) {
	if err := validate.Var(id, "len=2,alpha"); err != nil {
		return nil, &apierrors.ConfigError{
			Field: "storefront",
			Err:   fmt.Errorf("%w: %q", apierrors.ErrInvalidStorefront, id),
		}
	}
	var result DataResponse[Storefront]
	spec := RequestSpec{Method: http.MethodGet, Path: "/v1/storefronts/" + url.PathEscape(id)}
	if err := c.Do(ctx, spec, &result); err != nil {
		return nil, err
	}
	if len(result.Data) == 0 {
		return nil, &apierrors.APIError{
			StatusCode: http.StatusNotFound,
			Message:    fmt.Sprintf("storefront %s not found", id),
		}
	}
	return &result.Data[0], nil
}

// GetStorefronts lists every storefront.
func (c *Client) GetStorefronts(ctx context.Context) ([]Storefront, error) {
	var result DataResponse[Storefront]
	spec := RequestSpec{Method: http.MethodGet, Path: "/v1/storefronts"}
	if err := c.Do(ctx, spec, &result); err != nil {
		return nil, err
	}
	return result.Data, nil
}

// GetNext follows a pagination href such as DataResponse.Next.
func (c *Client) GetNext(ctx context.Context, href string, out any) error {
	if href == "" {
		return &apierrors.ConfigError{Field: "href", Err: fmt.Errorf("empty pagination href")}
	}
	return c.Do(ctx, RequestSpec{Method: http.MethodGet, Path: href}, out)
}
