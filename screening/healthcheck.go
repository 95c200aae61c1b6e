package screening

import (
	fthealth "github.com/Financial-Times/go-fthealth/v1_1"
	"github.com/Financial-Times/service-status-go/gtg"
)

type HealthService struct {
	config *healthConfig
	svc    Service
	Checks []fthealth.Check
}

type healthConfig struct {
	appSystemCode string
	appName       string
	description   string
}

func NewHealthService(svc Service, appSystemCode string, appName string, description string) *HealthService {
	service := &HealthService{
		config: &healthConfig{
			appSystemCode: appSystemCode,
			appName:       appName,
			description:   description,
		},
		svc: svc,
	}
	service.Checks = svc.Healthchecks()
	return service
}

func (svc *HealthService) GTG() gtg.Status {
	for _, check := range svc.Checks {
		if _, err := check.Checker(); err != nil {
			return gtg.Status{GoodToGo: false, Message: err.Error()}
		}
	}
	return gtg.Status{GoodToGo: true}
}
