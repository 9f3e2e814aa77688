package common

// AuthorizationHeaderName carries the device token on API requests,
// as "Bearer <token>".
const AuthorizationHeaderName = "Authorization"
