package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/playmatatu/hoopshot/internal/game"
	"github.com/playmatatu/hoopshot/internal/room"
)

// ListVariants returns the parameter presets sessions can be created with
func ListVariants(manager *room.Manager, defaultVariant string) gin.HandlerFunc {
	return func(c *gin.Context) {
		presets := manager.Variants()
		variants := make([]game.Params, 0, len(presets))
		for _, name := range game.PresetNames(presets) {
			variants = append(variants, presets[name])
		}
		c.JSON(http.StatusOK, gin.H{"default": defaultVariant, "variants": variants})
	}
}
