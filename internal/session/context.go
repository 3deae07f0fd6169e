// Package session holds the translation direction state for one running
// application: which language is "source" and which is "target" for the
// next request, without the user picking them every time. The machine
// keeps a sticky memory of the most recently used foreign language and
// resets itself after a period of inactivity.
package session

import (
	"sync"
	"time"
)

// Auto is the sentinel source meaning "not resolved yet, detect it".
const Auto = "auto"

// DefaultTimeout applies when configuration does not specify a session
// timeout.
const DefaultTimeout = 10 * time.Minute

// Pair is the resolved direction for the next translation call.
type Pair struct {
	Source string
	Target string
}

// Config seeds a fresh context.
type Config struct {
	PrimaryLanguage        string
	DefaultForeignLanguage string
	Timeout                time.Duration
}

// Context is the session state machine. One instance exists per running
// application; it is handed to the orchestrator by reference and mutated
// only through its own methods. All methods are safe for concurrent use,
// but direction resolution is expected to be serialized upstream (one
// logical translation in flight at a time).
type Context struct {
	mu sync.Mutex

	primary        string
	defaultForeign string
	lastForeign    string

	source string
	target string

	timeout      time.Duration
	lastActivity time.Time

	now func() time.Time
}

func NewContext(cfg Config) *Context {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Context{
		primary:        cfg.PrimaryLanguage,
		defaultForeign: cfg.DefaultForeignLanguage,
		lastForeign:    cfg.DefaultForeignLanguage,
		source:         Auto,
		target:         cfg.DefaultForeignLanguage,
		timeout:        timeout,
		now:            time.Now,
	}
	c.lastActivity = c.now()
	return c
}

// HandleExternalInput applies a detected language for text that arrived
// from an outside trigger (hotkey-captured selection or clipboard). A
// foreign snippet always sets up foreign→primary; primary-language text
// reuses the sticky foreign language as the target.
func (c *Context) HandleExternalInput(detected string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()

	if detected == "" {
		return
	}

	if detected == c.primary {
		c.source = c.primary
		c.target = c.lastForeign
	} else {
		c.source = detected
		c.target = c.primary
		c.lastForeign = detected
	}
	c.touchLocked()
}

// HandleInputUpdate applies a detected language for a live edit of text
// already in the input box. Direction flips only when the user has
// switched to typing the current target language, or switched back to the
// sticky foreign language; any other detection is ignored so that noisy
// guesses on short fragments cannot thrash the state.
func (c *Context) HandleInputUpdate(detected string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()

	if detected == "" {
		return
	}

	switch {
	case detected == c.target:
		c.source = detected
		if detected == c.primary {
			c.target = c.lastForeign
		} else {
			c.target = c.primary
		}
		c.touchLocked()
	case detected == c.lastForeign && c.source != c.lastForeign:
		c.source = c.lastForeign
		c.target = c.primary
		c.touchLocked()
	}
}

// SetManualPair applies an explicit language-selector override. A pair
// whose concrete sides are equal is malformed and ignored.
func (c *Context) SetManualPair(source, target string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()

	if source != "" && source != Auto && source == target {
		return
	}

	if source != "" && source != Auto {
		c.source = source
		if source != c.primary {
			c.lastForeign = source
		}
	} else if source == Auto {
		c.source = Auto
	}

	if target != "" && target != Auto {
		c.target = target
		if target != c.primary {
			c.lastForeign = target
		}
	}

	// A one-sided override can collide with the stored opposite side;
	// the explicitly set side wins and the other one flips.
	if c.source != Auto && c.source == c.target {
		if source != "" && source != Auto {
			if c.source == c.primary {
				c.target = c.lastForeign
			} else {
				c.target = c.primary
			}
		} else {
			if c.target == c.primary {
				c.source = c.lastForeign
			} else {
				c.source = c.primary
			}
		}
	}
	c.touchLocked()
}

// UpdateFromAPIResult reconciles the context after the backend itself
// reported the detected source language of an "auto" request. When the
// backend's detection equals the current target the assumed direction was
// inverted: the pair is flipped and true is returned so the caller knows
// to reissue the request the other way around.
func (c *Context) UpdateFromAPIResult(detected string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()

	if detected == "" {
		return false
	}

	if detected == c.target {
		c.source = detected
		if detected == c.primary {
			c.target = c.lastForeign
		} else {
			c.target = c.primary
			c.lastForeign = detected
		}
		c.touchLocked()
		return true
	}

	c.source = detected
	if detected != c.primary {
		c.lastForeign = detected
	}
	c.touchLocked()
	return false
}

// RememberForeign records a foreign language used by an explicit request
// so a later auto request benefits from the stickiness. Primary and empty
// codes are no-ops.
func (c *Context) RememberForeign(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()

	if code == "" || code == Auto || code == c.primary {
		return
	}
	c.lastForeign = code
	c.touchLocked()
}

// UpdateConfig applies a settings change. Empty strings leave the
// corresponding field alone. The new default foreign language cascades
// into lastForeign/target only when those still point at the old default
// (or the session had already expired); a live session with a different
// explicit foreign language is left alone.
func (c *Context) UpdateConfig(primary, secondary string, timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()

	if timeout > 0 {
		c.timeout = timeout
	}
	if primary != "" {
		c.primary = primary
	}
	if secondary != "" && secondary != c.primary {
		oldDefault := c.defaultForeign
		c.defaultForeign = secondary
		if c.lastForeign == oldDefault {
			c.lastForeign = secondary
		}
		if c.target == oldDefault {
			c.target = secondary
		}
	}

	// A primary change can collide with the sticky foreign language.
	if c.lastForeign == c.primary {
		c.lastForeign = c.defaultForeign
	}
	if c.source == c.target && c.source != Auto {
		c.source = Auto
	}
	c.touchLocked()
}

// CheckTimeout resets the session to its defaults when it has been idle
// longer than the configured timeout. Idempotent: a second call with no
// elapsed time changes nothing further.
func (c *Context) CheckTimeout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.expireLocked()
}

// Touch marks the session as active now.
func (c *Context) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.touchLocked()
}

// CurrentPair returns the resolved direction for the next translation.
func (c *Context) CurrentPair() Pair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Pair{Source: c.source, Target: c.target}
}

// PrimaryLanguage returns the configured primary language.
func (c *Context) PrimaryLanguage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.primary
}

// LastForeignLanguage returns the sticky foreign language.
func (c *Context) LastForeignLanguage() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastForeign
}

// Expired reports whether the session idle timeout has elapsed.
func (c *Context) Expired() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.expiredLocked()
}

func (c *Context) expiredLocked() bool {
	return c.now().Sub(c.lastActivity) > c.timeout
}

// expireLocked runs at the start of every mutation: a stale session is
// reset to defaults before new information is applied.
func (c *Context) expireLocked() {
	if !c.expiredLocked() {
		return
	}
	c.lastForeign = c.defaultForeign
	c.source = Auto
	c.target = c.defaultForeign
}

func (c *Context) touchLocked() {
	c.lastActivity = c.now()
}
