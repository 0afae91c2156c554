// Package auth implements session based authentication.
//
// A request is either anonymous or authenticated. [Gateway.Login] moves a client to
// authenticated by verifying credentials against a [UserStore] and opening a [Session];
// [Gateway.Logout] deletes the session and moves it back.
//
// Sessions hold only the user id. [Gateway.Authenticate] rehydrates the full user on every
// request and stores it in the request context, where handlers read it with
// [UserFromContext]. [Gateway.RequireAuth] answers 401 for anonymous requests before the
// wrapped handler runs.
//
// [MemorySessionStore] keeps sessions in a map guarded by a sync.RWMutex.
package auth
