package discovery

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/consul/api"
	"go.uber.org/zap"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

// agent is the subset of the Consul agent API used for registration.
type agent interface {
	ServiceRegister(service *api.AgentServiceRegistration) error
	ServiceDeregister(serviceID string) error
}

type ServiceRegistry struct {
	agent  agent
	cfg    config.Config
	logger logger.Logger
}

// NewServiceRegistry returns nil when no Consul address is configured.
func NewServiceRegistry(cfg config.Config, log logger.Logger) (*ServiceRegistry, error) {
	if cfg.Consul.Address == "" {
		return nil, nil
	}
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Consul.Address

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}
	return &ServiceRegistry{agent: client.Agent(), cfg: cfg, logger: log}, nil
}

func (sr *ServiceRegistry) serviceID() string {
	if sr.cfg.Consul.ServiceID != "" {
		return sr.cfg.Consul.ServiceID
	}
	return sr.cfg.App.Name + "-http"
}

// Registration describes this instance with an HTTP check against /api/health.
func (sr *ServiceRegistry) Registration() (*api.AgentServiceRegistration, error) {
	port, err := strconv.Atoi(sr.cfg.App.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid app port %q: %w", sr.cfg.App.Port, err)
	}
	address := sr.cfg.Consul.ServiceAddress
	if address == "" {
		address = "localhost"
	}
	return &api.AgentServiceRegistration{
		ID:      sr.serviceID(),
		Name:    sr.cfg.App.Name,
		Port:    port,
		Address: address,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/api/health", address, port),
			Interval:                       "10s",
			Timeout:                        "5s",
			DeregisterCriticalServiceAfter: "1m",
		},
		Tags: []string{"profile", "http"},
		Meta: map[string]string{
			"protocol": "http",
			"env":      sr.cfg.App.Env,
		},
	}, nil
}

func (sr *ServiceRegistry) Register() error {
	reg, err := sr.Registration()
	if err != nil {
		return err
	}
	if err := sr.agent.ServiceRegister(reg); err != nil {
		return fmt.Errorf("failed to register HTTP service with Consul: %w", err)
	}
	sr.logger.Info("Registered with Consul", zap.String("service_id", reg.ID))
	return nil
}

func (sr *ServiceRegistry) Deregister() {
	if err := sr.agent.ServiceDeregister(sr.serviceID()); err != nil {
		sr.logger.Warn("Error deregistering HTTP service", zap.Error(err))
	}
}
