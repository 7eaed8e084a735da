// handlers/stats_routes.go
package handlers

import (
	"strconv"

	"league-stats-engine/apperrors"
	"league-stats-engine/services"

	"github.com/gofiber/fiber/v2"
)

// SetupStatsRoutes mounts the derived-statistics endpoints. Every 200
// carries an ETag; a matching If-None-Match gets an empty 304; ?refresh=true
// bypasses the cache read but still repopulates it.
func SetupStatsRoutes(app *fiber.App, stats *services.StatsService) {
	app.Get("/leaderboard", func(c *fiber.Ctx) error {
		payload, etag, err := stats.GetLeaderboard(
			c.UserContext(),
			c.Query("metric", string(services.MetricGoals)),
			optionalQuery(c, "leagueId"),
			optionalQuery(c, "seasonId"),
			c.Query("positionType"),
			c.QueryBool("refresh"),
		)
		return respond(c, payload, etag, err)
	})

	app.Get("/leagues/:id/trophies", func(c *fiber.Ctx) error {
		payload, etag, err := stats.GetTrophyRoom(c.UserContext(), c.Params("id"), c.QueryBool("refresh"))
		return respond(c, payload, etag, err)
	})

	app.Get("/players/:id/trophies", func(c *fiber.Ctx) error {
		filters, err := queryFilters(c)
		if err != nil {
			return respond(c, nil, "", err)
		}
		payload, etag, err := stats.GetPlayerTrophies(c.UserContext(), c.Params("id"), filters, c.QueryBool("refresh"))
		return respond(c, payload, etag, err)
	})

	app.Get("/players/:id/achievements", func(c *fiber.Ctx) error {
		filters, err := queryFilters(c)
		if err != nil {
			return respond(c, nil, "", err)
		}
		payload, etag, err := stats.GetPlayerAchievements(c.UserContext(), c.Params("id"), filters, c.QueryBool("refresh"))
		return respond(c, payload, etag, err)
	})

	app.Get("/players/:id/records", func(c *fiber.Ctx) error {
		filters, err := queryFilters(c)
		if err != nil {
			return respond(c, nil, "", err)
		}
		payload, etag, err := stats.GetHistoryRecords(c.UserContext(), c.Params("id"), filters, c.QueryBool("refresh"))
		return respond(c, payload, etag, err)
	})
}

// SetupXPRoutes mounts the admin-facing XP maintenance endpoints used
// by match-management when a result is finalized or totals drift.
func SetupXPRoutes(app *fiber.App, xp *services.XPService) {
	app.Post("/matches/:id/xp", func(c *fiber.Ctx) error {
		awards, err := xp.FinalizeMatchXP(c.UserContext(), c.Params("id"))
		if err != nil {
			return respond(c, nil, "", err)
		}
		return c.JSON(fiber.Map{"success": true, "awards": awards})
	})

	app.Post("/players/:id/xp/recompute", func(c *fiber.Ctx) error {
		total, err := xp.RecomputePlayerTotal(c.UserContext(), c.Params("id"))
		if err != nil {
			return respond(c, nil, "", err)
		}
		return c.JSON(fiber.Map{"success": true, "total_xp": total})
	})
}

func queryFilters(c *fiber.Ctx) (services.QueryFilters, error) {
	filters := services.QueryFilters{
		LeagueID: optionalQuery(c, "leagueId"),
		SeasonID: optionalQuery(c, "seasonId"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return filters, apperrors.ErrValidation("malformed year: " + raw)
		}
		filters.Year = &year
	}
	return filters, nil
}

func optionalQuery(c *fiber.Ctx, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}

func respond(c *fiber.Ctx, payload any, etag string, err error) error {
	if err != nil {
		switch apperrors.CodeOf(err) {
		case apperrors.ErrCodeValidationFailed:
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		case apperrors.ErrCodeNotFound:
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		default:
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "temporary failure, retry"})
		}
	}

	if etag != "" {
		if c.Get(fiber.HeaderIfNoneMatch) == etag {
			return c.SendStatus(fiber.StatusNotModified)
		}
		c.Set(fiber.HeaderETag, etag)
	}
	return c.JSON(payload)
}
