package controllers

import (
	"github.com/gin-gonic/gin"
	"taovideo/internal/services"
	"taovideo/pkg/utils"
)

type PackageController struct {
	packageService services.PackageServiceInterface
}

func NewPackageController(packageService services.PackageServiceInterface) *PackageController {
	return &PackageController{
		packageService: packageService,
	}
}

// ListPackages godoc
// @Summary List credit packages available for purchase
// @Tags Packages
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /credit-packages [get]
func (p *PackageController) ListPackages(c *gin.Context) {
	packages, err := p.packageService.ListPackages(c.Request.Context())
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, packages, "Credit packages fetched successfully")
}
