// Package discovery registers the service with Consul so the platform
// gateway can route to it.
package discovery

import (
	"fmt"
	"log"
	"strconv"

	"github.com/hashicorp/consul/api"

	"mix-service/internal/config"
)

type ServiceRegistry struct {
	client    *api.Client
	serviceID string
	config    *config.Config
}

func NewServiceRegistry(cfg *config.Config) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.ConsulAddress

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %v", err)
	}

	return &ServiceRegistry{
		client:    client,
		serviceID: fmt.Sprintf("%s-%s-%s", cfg.ServiceName, cfg.ServiceAddress, cfg.Port),
		config:    cfg,
	}, nil
}

// Register announces the service with an HTTP health check on /health.
func (sr *ServiceRegistry) Register() error {
	port, _ := strconv.Atoi(sr.config.Port)
	registration := &api.AgentServiceRegistration{
		ID:      sr.serviceID,
		Name:    sr.config.ServiceName,
		Port:    port,
		Address: sr.config.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.config.ServiceAddress, sr.config.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"mix", "study-sessions"},
	}

	if err := sr.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service with Consul: %v", err)
	}

	log.Println("Successfully registered service with Consul")
	return nil
}

func (sr *ServiceRegistry) Deregister() error {
	return sr.client.Agent().ServiceDeregister(sr.serviceID)
}

// FindService looks up healthy instances of another platform service.
func (sr *ServiceRegistry) FindService(serviceName string) ([]*api.ServiceEntry, error) {
	services, _, err := sr.client.Health().Service(serviceName, "", true, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to find service %s: %v", serviceName, err)
	}
	if len(services) == 0 {
		return nil, fmt.Errorf("no healthy instances of service %s found", serviceName)
	}
	return services, nil
}

func (sr *ServiceRegistry) GetServiceAddress(serviceName string) (string, error) {
	services, err := sr.FindService(serviceName)
	if err != nil {
		return "", err
	}

	service := services[0]
	address := service.Service.Address
	if address == "" {
		address = service.Node.Address
	}
	return fmt.Sprintf("%s:%d", address, service.Service.Port), nil
}
