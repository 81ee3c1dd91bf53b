package discovery

import (
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khoahotran/devconnector/internal/config"
	"github.com/khoahotran/devconnector/pkg/logger"
)

type fakeAgent struct {
	registered   []*api.AgentServiceRegistration
	deregistered []string
}

func (a *fakeAgent) ServiceRegister(s *api.AgentServiceRegistration) error {
	a.registered = append(a.registered, s)
	return nil
}

func (a *fakeAgent) ServiceDeregister(id string) error {
	a.deregistered = append(a.deregistered, id)
	return nil
}

func TestNewServiceRegistry_DisabledWithoutAddress(t *testing.T) {
	sr, err := NewServiceRegistry(config.Config{}, logger.NewNop())
	require.NoError(t, err)
	assert.Nil(t, sr)
}

func TestRegisterAndDeregister(t *testing.T) {
	var cfg config.Config
	cfg.App.Name = "devconnector-api"
	cfg.App.Port = "5000"
	cfg.Consul.ServiceAddress = "api.internal"

	agent := &fakeAgent{}
	sr := &ServiceRegistry{agent: agent, cfg: cfg, logger: logger.NewNop()}

	require.NoError(t, sr.Register())
	require.Len(t, agent.registered, 1)
	reg := agent.registered[0]
	assert.Equal(t, "devconnector-api-http", reg.ID)
	assert.Equal(t, 5000, reg.Port)
	assert.Equal(t, "http://api.internal:5000/api/health", reg.Check.HTTP)

	sr.Deregister()
	assert.Equal(t, []string{"devconnector-api-http"}, agent.deregistered)
}

func TestRegister_BadPort(t *testing.T) {
	var cfg config.Config
	cfg.App.Port = "http"
	sr := &ServiceRegistry{agent: &fakeAgent{}, cfg: cfg, logger: logger.NewNop()}
	assert.Error(t, sr.Register())
}
