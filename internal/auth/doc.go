// Package auth holds the credential material used to authorize Apple Music
// API requests and the ES256 signer that derives developer tokens from a
// MusicKit private key.
//
// # Authentication Modes
//
// A [Credentials] value carries exactly one [Mode]:
//
//   - [SimpleAuth]: a pre-generated developer token sent verbatim.
//   - [JWTAuth]: a team id, key id and P-256 private key from which a
//     developer token is signed on demand by a [Signer].
//
// The user token (Music-User-Token) is independent of the mode and may be
// set or cleared at any time. Readers take a snapshot per request.
//
// # Token Format
//
// Developer tokens are compact JWS values:
//
//	base64url(header) "." base64url(claims) "." base64url(signature)
//
// The header is {"alg":"ES256","kid":<key id>,"typ":"JWT"} and the claims are
// {"iss":<team id>,"iat":<issued at>,"exp":<expires at>}. The signature is
// the 64-byte R||S encoding required by JOSE.
//
// # Caching
//
// A [Signer] caches the last token and re-signs only when the current time
// is within the skew margin of expiry. Refresh is serialized: concurrent
// callers that observe an expiring token wait for a single re-sign and all
// receive its result.
package auth
