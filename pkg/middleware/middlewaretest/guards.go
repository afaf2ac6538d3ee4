// Package middlewaretest provides role gates for handler tests.
package middlewaretest

import (
	"github.com/gin-gonic/gin"

	"retail_backoffice/pkg/middleware"
)

// PassThroughGuards admits everyone.
func PassThroughGuards() middleware.Guards {
	pass := func(c *gin.Context) { c.Next() }
	return middleware.Guards{Admin: pass, Staff: pass}
}

// SignedInGuards admits everyone as the given actor.
func SignedInGuards(actor middleware.Actor) middleware.Guards {
	gate := func(c *gin.Context) {
		c.Set(middleware.ContextUID, actor.UID)
		c.Set(middleware.ContextEmail, actor.Email)
		c.Set(middleware.ContextName, actor.Name)
		c.Set(middleware.ContextRole, actor.Role)
		c.Next()
	}
	return middleware.Guards{Admin: gate, Staff: gate}
}
