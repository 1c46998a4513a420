// Package codecamp implements the authentication core of the code camp
// management API: credential verification against stored password hashes,
// HMAC-SHA256 bearer token issuance with a defined claim set, and a cookie
// backed session sign-in path.
//
// Token issuance:
//   - The claim set keeps insertion order (sub, jti, given_name,
//     family_name, email, then custom user claims). Custom claims are
//     appended as-is, duplicates included.
//   - Expiry is issuance time plus a fixed window, 15 minutes by default.
//   - The signing key lives in a Keyring and can be swapped atomically.
//     Swapping invalidates every outstanding token signed under the old
//     key; that is the accepted reload tradeoff.
//
// Sessions:
//   - Sign-in mints a session token and leaves it in an HTTPOnly cookie
//     without an expiry, so the browser drops it when the session ends.
//   - Unauthenticated API requests get a 401 instead of the login redirect
//     browsers receive; see middleware/authware.
package codecamp
