package applemusic

import (
	"context"

	"github.com/musickit/applemusic-go/internal/api"
	"github.com/musickit/applemusic-go/internal/apierrors"
)

// Library resource models. Library ids are distinct from catalog ids.
type (
	LibrarySong     = api.LibrarySong
	LibraryAlbum    = api.LibraryAlbum
	LibraryArtist   = api.LibraryArtist
	LibraryPlaylist = api.LibraryPlaylist
)

// Page selects a window of a library collection.
type Page struct {
	// Limit is the page size, 1 to 100. Zero uses the API default.
	Limit int `validate:"gte=0,lte=100"`
	// Offset skips items.
	Offset int `validate:"gte=0"`
}

func (p Page) params() (api.Page, error) {
	if err := validate.Struct(p); err != nil {
		return api.Page{}, &apierrors.ConfigError{Field: "page", Err: err}
	}
	return api.Page{Limit: p.Limit, Offset: p.Offset}, nil
}

func getLibrary[T any](ctx context.Context, c *Client, kind MediaType, page Page) (*DataResponse[T], error) {
	p, err := page.params()
	if err != nil {
		return nil, err
	}
	return api.GetLibraryResources[T](ctx, c.apiClient, kind, p)
}

// GetLibrarySongs lists songs in the user's library. Requires a user token.
func (c *Client) GetLibrarySongs(ctx context.Context, page Page) (*DataResponse[LibrarySong], error) {
	return getLibrary[LibrarySong](ctx, c, MediaSongs, page)
}

// GetLibraryAlbums lists albums in the user's library. Requires a user token.
func (c *Client) GetLibraryAlbums(ctx context.Context, page Page) (*DataResponse[LibraryAlbum], error) {
	return getLibrary[LibraryAlbum](ctx, c, MediaAlbums, page)
}

// GetLibraryArtists lists artists in the user's library. Requires a user token.
func (c *Client) GetLibraryArtists(ctx context.Context, page Page) (*DataResponse[LibraryArtist], error) {
	return getLibrary[LibraryArtist](ctx, c, MediaArtists, page)
}

// GetLibraryPlaylists lists playlists in the user's library. Requires a user token.
func (c *Client) GetLibraryPlaylists(ctx context.Context, page Page) (*DataResponse[LibraryPlaylist], error) {
	return getLibrary[LibraryPlaylist](ctx, c, MediaPlaylists, page)
}

// AddToLibrary adds catalog resources to the user's library. Only songs,
// albums, playlists and music videos can be added. Requires a user token.
func (c *Client) AddToLibrary(ctx context.Context, kind MediaType, ids []string) error {
	switch kind {
	case MediaSongs, MediaAlbums, MediaPlaylists, MediaMusicVideos:
	default:
		return &apierrors.ConfigError{Field: "type", Err: errUnknownMediaType(kind)}
	}
	return c.apiClient.AddToLibrary(ctx, kind, ids)
}
