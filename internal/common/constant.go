package common

// AuthorizationHeaderName is the HTTP header carrying the bearer session token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token value in the authorization header.
const BearerPrefix = "Bearer "
