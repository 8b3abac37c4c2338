package services

import (
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"almoner/config"
	"almoner/database"
	"almoner/models"
)

// StartMaintenance schedules the nightly maintenance job and returns the
// running scheduler so main can stop it on shutdown.
func StartMaintenance() *cron.Cron {
	c := cron.New()

	// 03:15 server time, after the day's activity has settled.
	if _, err := c.AddFunc("15 3 * * *", RunMaintenance); err != nil {
		logrus.WithError(err).Error("failed to schedule maintenance job")
		return c
	}

	c.Start()
	return c
}

// RunMaintenance recomputes campaign raised totals from donation rows and
// prunes audit logs past the configured retention.
func RunMaintenance() {
	start := time.Now()

	recomputeCampaignTotals()
	pruneAuditLogs()

	logrus.WithField("duration", time.Since(start)).Info("maintenance run complete")
}

// recomputeCampaignTotals rebuilds each campaign's Raised from its
// donations. Raised is otherwise maintained incrementally, so a bad
// manual edit or a deleted donation can leave it drifting.
func recomputeCampaignTotals() {
	var campaigns []models.Campaign
	if err := database.DB.Find(&campaigns).Error; err != nil {
		logrus.WithError(err).Error("maintenance: failed to list campaigns")
		return
	}

	for _, campaign := range campaigns {
		var total float64
		err := database.DB.Model(&models.Donation{}).
			Where("campaign_id = ?", campaign.ID).
			Select("COALESCE(SUM(amount), 0)").
			Scan(&total).Error
		if err != nil {
			logrus.WithError(err).WithField("campaign_id", campaign.ID).
				Error("maintenance: failed to sum donations")
			continue
		}

		if total != campaign.Raised {
			logrus.WithFields(logrus.Fields{
				"campaign_id": campaign.ID,
				"stored":      campaign.Raised,
				"computed":    total,
			}).Warn("maintenance: correcting campaign raised total")
			database.DB.Model(&models.Campaign{}).
				Where("id = ?", campaign.ID).
				Update("raised", total)
		}
	}
}

func pruneAuditLogs() {
	cfg := config.GetConfig()
	cutoff := time.Now().AddDate(0, 0, -cfg.AuditRetentionDays)

	result := database.DB.Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		logrus.WithError(result.Error).Error("maintenance: failed to prune audit logs")
		return
	}
	if result.RowsAffected > 0 {
		logrus.WithField("rows", result.RowsAffected).Info("maintenance: pruned audit logs")
	}
}
