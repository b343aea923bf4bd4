package applemusic

import (
	"context"
	"strings"

	"github.com/musickit/applemusic-go/internal/api"
	"github.com/musickit/applemusic-go/internal/apierrors"
)

// MediaType names a catalog resource collection.
type MediaType = api.MediaType

// Media types accepted by search and library operations.
const (
	MediaSongs         = api.MediaSongs
	MediaAlbums        = api.MediaAlbums
	MediaArtists       = api.MediaArtists
	MediaPlaylists     = api.MediaPlaylists
	MediaMusicVideos   = api.MediaMusicVideos
	MediaStations      = api.MediaStations
	MediaAppleCurators = api.MediaAppleCurators
	MediaCurators      = api.MediaCurators
)

// ParseMediaType converts a collection name such as "music-videos" to a MediaType.
func ParseMediaType(s string) (MediaType, error) {
	return api.ParseMediaType(s)
}

// Resource models.
type (
	Song                 = api.Song
	Album                = api.Album
	Artist               = api.Artist
	Playlist             = api.Playlist
	MusicVideo           = api.MusicVideo
	Station              = api.Station
	Curator              = api.Curator
	Storefront           = api.Storefront
	Artwork              = api.Artwork
	PlayParams           = api.PlayParams
	EditorialNotes       = api.EditorialNotes
	Relationship         = api.Relationship
	ResourceRef          = api.ResourceRef
	Meta                 = api.Meta
	SongAttributes       = api.SongAttributes
	AlbumAttributes      = api.AlbumAttributes
	ArtistAttributes     = api.ArtistAttributes
	PlaylistAttributes   = api.PlaylistAttributes
	MusicVideoAttributes = api.MusicVideoAttributes
	StationAttributes    = api.StationAttributes
	CuratorAttributes    = api.CuratorAttributes
	StorefrontAttributes = api.StorefrontAttributes

	SearchResponse            = api.SearchResponse
	SearchResults             = api.SearchResults
	SearchHintsResponse       = api.SearchHintsResponse
	SearchSuggestionsResponse = api.SearchSuggestionsResponse
	SearchSuggestion          = api.SearchSuggestion
)

// Resource is the envelope shared by every Apple Music object.
type Resource[A any] = api.Resource[A]

// DataResponse is a page of resources with an optional next href.
type DataResponse[T any] = api.DataResponse[T]

// SearchOptions narrows a catalog search.
type SearchOptions struct {
	// Types restricts results to these media types. Empty means songs,
	// albums and artists.
	Types []MediaType
	// Limit is the number of results per type, 1 to 25. Zero uses the API default.
	Limit int `validate:"gte=0,lte=25"`
	// Offset skips results for paging.
	Offset int `validate:"gte=0"`
}

var defaultSearchTypes = []MediaType{MediaSongs, MediaAlbums, MediaArtists}

// Search queries the catalog of the configured storefront.
func (c *Client) Search(ctx context.Context, term string, opts SearchOptions) (*SearchResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, &apierrors.ConfigError{Field: "term", Err: errEmptyTerm}
	}
	if err := validate.Struct(opts); err != nil {
		return nil, &apierrors.ConfigError{Field: "search_options", Err: err}
	}
	types := opts.Types
	if len(types) == 0 {
		types = defaultSearchTypes
	}
	for _, t := range types {
		if !t.Valid() {
			return nil, &apierrors.ConfigError{Field: "types", Err: errUnknownMediaType(t)}
		}
	}

	return c.apiClient.Search(ctx, c.storefront, term, api.SearchParams{
		Types:  types,
		Limit:  opts.Limit,
		Offset: opts.Offset,
	})
}

// SearchHints returns completion terms for a partial search term.
func (c *Client) SearchHints(ctx context.Context, term string) (*SearchHintsResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, &apierrors.ConfigError{Field: "term", Err: errEmptyTerm}
	}
	return c.apiClient.SearchHints(ctx, c.storefront, term)
}

// SearchSuggestions returns term suggestions for a partial search term.
func (c *Client) SearchSuggestions(ctx context.Context, term string) (*SearchSuggestionsResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil, &apierrors.ConfigError{Field: "term", Err: errEmptyTerm}
	}
	return c.apiClient.SearchSuggestions(ctx, c.storefront, term)
}

// GetSong fetches a catalog song by id.
func (c *Client) GetSong(ctx context.Context, id string) (*Song, error) {
	return api.GetCatalogResource[Song](ctx, c.apiClient, c.storefront, MediaSongs, id)
}

// GetAlbum fetches a catalog album by id.
func (c *Client) GetAlbum(ctx context.Context, id string) (*Album, error) {
	return api.GetCatalogResource[Album](ctx, c.apiClient, c.storefront, MediaAlbums, id)
}

// GetArtist fetches a catalog artist by id.
func (c *Client) GetArtist(ctx context.Context, id string) (*Artist, error) {
	return api.GetCatalogResource[Artist](ctx, c.apiClient, c.storefront, MediaArtists, id)
}

// GetPlaylist fetches a catalog playlist by id.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*Playlist, error) {
	return api.GetCatalogResource[Playlist](ctx, c.apiClient, c.storefront, MediaPlaylists, id)
}

// GetSongs fetches several catalog songs in one request.
func (c *Client) GetSongs(ctx context.Context, ids []string) ([]Song, error) {
	return api.GetCatalogResources[Song](ctx, c.apiClient, c.storefront, MediaSongs, ids)
}

// GetAlbums fetches several catalog albums in one request.
func (c *Client) GetAlbums(ctx context.Context, ids []string) ([]Album, error) {
	return api.GetCatalogResources[Album](ctx, c.apiClient, c.storefront, MediaAlbums, ids)
}

// GetArtists fetches several catalog artists in one request.
func (c *Client) GetArtists(ctx context.Context, ids []string) ([]Artist, error) {
	return api.GetCatalogResources[Artist](ctx, c.apiClient, c.storefront, MediaArtists, ids)
}

// GetStorefront fetches the configured storefront.
func (c *Client) GetStorefront(ctx context.Context) (*Storefront, error) {
	return c.apiClient.GetStorefront(ctx, c.storefront)
}

// GetStorefronts lists all storefronts.
func (c *Client) GetStorefronts(ctx context.Context) ([]Storefront, error) {
	return c.apiClient.GetStorefronts(ctx)
}
