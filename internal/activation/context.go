package activation

// Context is the frozen activation decision. A nil *Context means profiles
// are not yet known (the first import phase); once built it is immutable and
// every contributor activation question consults this single instance.
type Context struct {
	profiles *Profiles
	platform CloudPlatform
}

// NewContext creates the activation context. Called exactly once per
// bootstrap, after the pre-profile binder is available.
func NewContext(profiles *Profiles, platform CloudPlatform) *Context {
	return &Context{profiles: profiles, platform: platform}
}

// Profiles returns the resolved profile model.
func (c *Context) Profiles() *Profiles { return c.profiles }

// CloudPlatform returns the detected platform.
func (c *Context) CloudPlatform() CloudPlatform { return c.platform }
