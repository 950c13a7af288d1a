/*
Package woavsdk is the client side of the WOAV session API.

A Client keeps cookies in a jar, so the session cookie set by CreateSession is
sent on every later call the way a browser would:

	c := woavsdk.NewClient("https://woav.example.com")

	signIn, err := c.SignInWithPassword(ctx, "ada@example.com", "hunter22")
	err = c.CreateSession(ctx, signIn.IDToken)

	me, err := c.CurrentSession(ctx)
	err = c.Logout(ctx)

Server handlers use the same APIError values to write their error bodies, so
errors.Is works across the wire:

	if errors.Is(err, woavsdk.ErrNotAuthenticated) { ... }
*/
package woavsdk
