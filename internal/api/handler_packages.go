package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"carwash-backend/internal/rules"
	"carwash-backend/internal/store"
)

// packageResponse is a package row together with its derived cadence, so
// clients never re-implement the rule table.
type packageResponse struct {
	ID                int64              `json:"id"`
	Name              string             `json:"name"`
	CarType           string             `json:"carType"`
	PricePerMonth     float64            `json:"pricePerMonth"`
	WashCountPerMonth int                `json:"washCountPerMonth"`
	InteriorCleaning  int                `json:"interiorCleaning"`
	Specs             rules.PackageSpecs `json:"specs"`
}

// GetPackages handles GET /package/packages.
func GetPackages(s store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		pkgs, err := s.ListPackages(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve packages"})
			return
		}

		responses := make([]packageResponse, 0, len(pkgs))
		for _, p := range pkgs {
			responses = append(responses, packageResponse{
				ID:                p.ID,
				Name:              p.Name,
				CarType:           p.CarType,
				PricePerMonth:     p.PricePerMonth,
				WashCountPerMonth: p.WashCountPerMonth,
				InteriorCleaning:  p.InteriorCleaning,
				Specs: rules.GetPackageSpecs(rules.PackageInfo{
					Name:              p.Name,
					WashCountPerMonth: p.WashCountPerMonth,
					WashCountPerWeek:  p.WashCountPerWeek,
					InteriorCleaning:  p.InteriorCleaning,
				}),
			})
		}
		c.JSON(http.StatusOK, responses)
	}
}
