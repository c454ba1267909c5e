package seeders

import (
	"log"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"audit-service/internal/models"
)

// SeedChecklistTemplates populates the checklist template library on first
// boot. The seed only runs against an empty table so operator edits survive
// restarts.
func SeedChecklistTemplates(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.ChecklistTemplate{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	templates := []models.ChecklistTemplate{
		{
			Category:             "General",
			Legislation:          models.LegislationOHSA,
			ItemNumber:           "1.1",
			Description:          "Floors are clean and free of trip hazards",
			RegulationReference:  "OHSA Sec 8",
			RiskLevel:            "medium",
			ApplicableIndustries: pq.StringArray{"Manufacturing", "Mining", "Construction"},
		},
		{
			Category:             "General",
			Legislation:          models.LegislationOHSA,
			ItemNumber:           "1.2",
			Description:          "Lighting is adequate in all areas",
			RegulationReference:  "OHSA Sec 8",
			RiskLevel:            "low",
			ApplicableIndustries: pq.StringArray{"Manufacturing", "Mining", "Construction"},
		},
		{
			Category:             "Machinery",
			Legislation:          models.LegislationOHSA,
			ItemNumber:           "2.1",
			Description:          "Guarding is in place on all moving parts",
			RegulationReference:  "DMR Reg 2",
			RiskLevel:            "critical",
			ApplicableIndustries: pq.StringArray{"Manufacturing", "Mining"},
		},
		{
			Category:             "Machinery",
			Legislation:          models.LegislationOHSA,
			ItemNumber:           "2.2",
			Description:          "Emergency stops are functional and accessible",
			RegulationReference:  "DMR Reg 2",
			RiskLevel:            "critical",
			ApplicableIndustries: pq.StringArray{"Manufacturing", "Mining"},
		},
		{
			Category:             "Electrical",
			Legislation:          models.LegislationOHSA,
			ItemNumber:           "3.1",
			Description:          "Distribution boards are locked and labeled",
			RegulationReference:  "EIR Reg 4",
			RiskLevel:            "high",
			ApplicableIndustries: pq.StringArray{"Manufacturing", "Mining", "Construction"},
		},
		{
			Category:             "Chemical",
			Legislation:          models.LegislationOHSA,
			ItemNumber:           "4.1",
			Description:          "SDS available for all hazardous chemicals",
			RegulationReference:  "HCS Reg 9A",
			RiskLevel:            "high",
			ApplicableIndustries: pq.StringArray{"Manufacturing", "Mining"},
		},
		{
			Category:             "PPE",
			Legislation:          models.LegislationOHSA,
			ItemNumber:           "5.1",
			Description:          "Employees wearing required safety boots",
			RegulationReference:  "GSR Reg 2",
			RiskLevel:            "medium",
			ApplicableIndustries: pq.StringArray{"Manufacturing", "Mining", "Construction"},
		},
		{
			Category:             "Fire",
			Legislation:          models.LegislationOHSA,
			ItemNumber:           "6.1",
			Description:          "Fire extinguishers are serviced and accessible",
			RegulationReference:  "ERW Reg 9",
			RiskLevel:            "high",
			ApplicableIndustries: pq.StringArray{"Manufacturing", "Mining", "Construction"},
		},
	}

	if err := db.Create(&templates).Error; err != nil {
		return err
	}
	log.Printf("Seeded %d checklist templates", len(templates))
	return nil
}

// SeedDemoRegistry creates a demo admin user and two sites when the registry
// is empty, so a fresh deployment is usable immediately.
func SeedDemoRegistry(db *gorm.DB) error {
	var userCount int64
	if err := db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount == 0 {
		admin := models.User{
			Username: "admin1",
			Email:    "admin@example.com",
			Name:     "Admin User",
			Role:     models.RoleAdmin,
		}
		if err := db.Create(&admin).Error; err != nil {
			return err
		}
		log.Printf("Seeded demo user: %s", admin.Username)
	}

	var siteCount int64
	if err := db.Model(&models.Site{}).Count(&siteCount).Error; err != nil {
		return err
	}
	if siteCount == 0 {
		sites := []models.Site{
			{Name: "Cape Town Factory", Location: "Cape Town", Industry: "Manufacturing", RiskProfile: models.RiskMedium},
			{Name: "Johannesburg Mine", Location: "Johannesburg", Industry: "Mining", RiskProfile: models.RiskHigh},
		}
		if err := db.Create(&sites).Error; err != nil {
			return err
		}
		log.Printf("Seeded %d demo sites", len(sites))
	}

	return nil
}
