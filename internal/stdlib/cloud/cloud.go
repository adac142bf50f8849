// Package cloud provides cloud computing and distributed systems capabilities.
// This package includes cloud services integration, container orchestration,
// microservices, and distributed computing frameworks.
package cloud

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// CloudProvider represents different cloud providers.
type CloudProvider int

const (
	AWS CloudProvider = iota
	Azure
	GoogleCloud
	Oracle
	DigitalOcean
	Linode
	Vultr
	Custom
)

// Service represents a cloud service.
type Service struct {
	ID          string
	Name        string
	Type        ServiceType
	Provider    CloudProvider
	Region      string
	Status      ServiceStatus
	Endpoint    string
	Credentials *Credentials
	Config      map[string]interface{}
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ServiceType represents different service types.
type ServiceType int

const (
	ComputeService ServiceType = iota
	StorageService
	DatabaseService
	NetworkService
	LoadBalancerService
	CDNService
	DNSService
	QueueService
	CacheService
	SearchService
	AIService
	AnalyticsService
)

// ServiceStatus represents service status.
type ServiceStatus int

const (
	StatusPending ServiceStatus = iota
	StatusRunning
	StatusStopped
	StatusError
	StatusTerminated
)

// Container represents a container instance.
type Container struct {
	ID        string
	Name      string
	Image     string
	Status    ContainerStatus
	Ports     []PortMapping
	Volumes   []VolumeMount
	Env       map[string]string
	Resources ResourceRequirements
	CreatedAt time.Time
	StartedAt time.Time
}

// ContainerStatus represents container status.
type ContainerStatus int

const (
	ContainerCreated ContainerStatus = iota
	ContainerRunning
	ContainerStopped
	ContainerExited
	ContainerError
)

// PortMapping represents a port mapping.
type PortMapping struct {
	HostPort      int
	ContainerPort int
	Protocol      string
}

// VolumeMount represents a volume mount.
type VolumeMount struct {
	HostPath      string
	ContainerPath string
	ReadOnly      bool
}

// ResourceRequirements represents resource requirements.
type ResourceRequirements struct {
	CPULimit      string
	MemoryLimit   string
	CPURequest    string
	MemoryRequest string
}

// Pod represents a pod (group of containers).
type Pod struct {
	ID         string
	Name       string
	Namespace  string
	Containers []Container
	Status     PodStatus
	NodeName   string
	Labels     map[string]string
	CreatedAt  time.Time
}

// PodStatus represents pod status.
type PodStatus int

const (
	PodPending PodStatus = iota
	PodRunning
	PodSucceeded
	PodFailed
	PodUnknown
)

// Deployment represents a deployment.
type Deployment struct {
	ID          string
	Name        string
	Namespace   string
	Replicas    int
	PodTemplate PodTemplate
	Status      DeploymentStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DeploymentStatus represents deployment status.
type DeploymentStatus struct {
	ReadyReplicas       int
	UpdatedReplicas     int
	AvailableReplicas   int
	UnavailableReplicas int
}

// PodTemplate represents a pod template.
type PodTemplate struct {
	Labels     map[string]string
	Containers []ContainerSpec
}

// ContainerSpec represents a container specification.
type ContainerSpec struct {
	Name      string
	Image     string
	Ports     []ContainerPort
	Env       []EnvVar
	Resources ResourceRequirements
}

// ContainerPort represents a container port.
type ContainerPort struct {
	Name          string
	ContainerPort int
	Protocol      string
}

// EnvVar represents an environment variable.
type EnvVar struct {
	Name  string
	Value string
}

// LoadBalancerStruct represents a load balancer.
type LoadBalancerStruct struct {
	ID        string
	Name      string
	Type      LoadBalancerType
	Frontend  []Frontend
	Backend   []Backend
	Rules     []Rule
	Status    ServiceStatus
	CreatedAt time.Time
}

// LoadBalancerType represents load balancer types.
type LoadBalancerType int

const (
	HTTPLoadBalancer LoadBalancerType = iota
	TCPLoadBalancer
	UDPLoadBalancer
)

// Frontend represents a load balancer frontend.
type Frontend struct {
	Name     string
	Port     int
	Protocol string
}

// Backend represents a load balancer backend.
type Backend struct {
	Name        string
	Servers     []Server
	HealthCheck *HealthCheck
}

// Server represents a backend server.
type Server struct {
	Host   string
	Port   int
	Weight int
	Status ServerStatus
}

// ServerStatus represents server status.
type ServerStatus int

const (
	ServerUp ServerStatus = iota
	ServerDown
	ServerMaintenance
)

// HealthCheck represents a health check configuration.
type HealthCheck struct {
	Path     string
	Port     int
	Interval time.Duration
	Timeout  time.Duration
	Retries  int
}

// Rule represents a load balancer rule.
type Rule struct {
	Condition string
	Backend   string
	Action    string
}

// QueueStruct represents a message queue.
type QueueStruct struct {
	ID         string
	Name       string
	Type       QueueType
	Messages   []Message
	DeadLetter *QueueStruct
	Config     QueueConfig
	Status     ServiceStatus
	CreatedAt  time.Time
}

// QueueType represents queue types.
type QueueType int

const (
	FIFOQueue QueueType = iota
	LIFOQueue
	PriorityQueue
	DelayQueueType
	DeadLetterQueueType
)

// Message represents a queue message.
type Message struct {
	ID           string
	Body         string
	Attributes   map[string]string
	Timestamp    time.Time
	Attempts     int
	VisibleAt    time.Time
	DeadLetterAt time.Time
}

// QueueConfig represents queue configuration.
type QueueConfig struct {
	MaxMessages       int
	MessageRetention  time.Duration
	VisibilityTimeout time.Duration
	MaxReceiveCount   int
}

// CacheStruct represents a distributed cache.
type CacheStruct struct {
	ID        string
	Name      string
	Type      CacheType
	Nodes     []CacheNode
	Config    CacheConfig
	Status    ServiceStatus
	CreatedAt time.Time
}

// CacheType represents cache types.
type CacheType int

const (
	Redis CacheType = iota
	Memcached
	InMemory
	Distributed
)

// CacheNode represents a cache node.
type CacheNode struct {
	ID     string
	Host   string
	Port   int
	Status NodeStatus
	Memory CacheMemoryInfo
}

// NodeStatus represents node status.
type NodeStatus int

const (
	NodeOnline NodeStatus = iota
	NodeOffline
	NodeFailing
	NodeMaintenance
)

// CacheMemoryInfo represents cache memory information.
type CacheMemoryInfo struct {
	Used      int64
	Available int64
	Total     int64
}

// CacheConfig represents cache configuration.
type CacheConfig struct {
	MaxMemory   int64
	Eviction    EvictionPolicy
	Persistence bool
	Replication int
	Clustering  bool
}

// EvictionPolicy represents cache eviction policies.
type EvictionPolicy int

const (
	LRUPolicy EvictionPolicy = iota
	LFUPolicy
	FIFOPolicy
	RandomPolicy
	TTLPolicy
)

// Credentials represents cloud service credentials.
type Credentials struct {
	AccessKey    string
	SecretKey    string
	Token        string
	Region       string
	Profile      string
	SessionToken string
	Expiry       time.Time
}

// CloudManager manages cloud services.
type CloudManager struct {
	services      map[string]*Service
	containers    map[string]*Container
	pods          map[string]*Pod
	deployments   map[string]*Deployment
	loadBalancers map[string]*LoadBalancerStruct
	queues        map[string]*QueueStruct
	caches        map[string]*CacheStruct
	config        *CloudConfig
}

// CloudConfig represents cloud configuration.
type CloudConfig struct {
	DefaultProvider CloudProvider
	DefaultRegion   string
	Credentials     map[CloudProvider]*Credentials
	Endpoints       map[ServiceType]string
	Timeouts        map[string]time.Duration
}

// Global cloud manager
var cloudManager *CloudManager

// NewCloudManager creates a new cloud manager.
func NewCloudManager(config *CloudConfig) *CloudManager {
	return &CloudManager{
		services:      make(map[string]*Service),
		containers:    make(map[string]*Container),
		pods:          make(map[string]*Pod),
		deployments:   make(map[string]*Deployment),
		loadBalancers: make(map[string]*LoadBalancerStruct),
		queues:        make(map[string]*QueueStruct),
		caches:        make(map[string]*CacheStruct),
		config:        config,
	}
}

// GetCloudManager returns the global cloud manager.
func GetCloudManager() *CloudManager {
	if cloudManager == nil {
		cloudManager = NewCloudManager(&CloudConfig{
			DefaultProvider: AWS,
			DefaultRegion:   "us-east-1",
			Credentials:     make(map[CloudProvider]*Credentials),
			Endpoints:       make(map[ServiceType]string),
			Timeouts:        make(map[string]time.Duration),
		})
	}
	return cloudManager
}

// Service management

// CreateService creates a new cloud service.
func (cm *CloudManager) CreateService(name string, serviceType ServiceType, provider CloudProvider) (*Service, error) {
	service := &Service{
		ID:        generateServiceID(),
		Name:      name,
		Type:      serviceType,
		Provider:  provider,
		Region:    cm.config.DefaultRegion,
		Status:    StatusPending,
		Config:    make(map[string]interface{}),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	// Set default endpoint
	if endpoint, exists := cm.config.Endpoints[serviceType]; exists {
		service.Endpoint = endpoint
	}

	// Set credentials
	if creds, exists := cm.config.Credentials[provider]; exists {
		service.Credentials = creds
	}

	cm.services[service.ID] = service

	// Simulate service creation
	go func() {
		time.Sleep(5 * time.Second)
		service.Status = StatusRunning
		service.UpdatedAt = time.Now()
	}()

	return service, nil
}

// GetService returns a service by ID.
func (cm *CloudManager) GetService(id string) (*Service, error) {
	if service, exists := cm.services[id]; exists {
		return service, nil
	}
	return nil, errors.New("service not found")
}

// ListServices returns all services.
func (cm *CloudManager) ListServices() []*Service {
	services := make([]*Service, 0, len(cm.services))
	for _, service := range cm.services {
		services = append(services, service)
	}
	return services
}

// DeleteService deletes a service.
func (cm *CloudManager) DeleteService(id string) error {
	service, exists := cm.services[id]
	if !exists {
		return errors.New("service not found")
	}

	service.Status = StatusTerminated
	delete(cm.services, id)

	return nil
}

// Container management

// CreateContainer creates a new container.
func (cm *CloudManager) CreateContainer(name, image string) (*Container, error) {
	container := &Container{
		ID:        generateContainerID(),
		Name:      name,
		Image:     image,
		Status:    ContainerCreated,
		Ports:     make([]PortMapping, 0),
		Volumes:   make([]VolumeMount, 0),
		Env:       make(map[string]string),
		CreatedAt: time.Now(),
	}

	cm.containers[container.ID] = container

	return container, nil
}

// StartContainer starts a container.
func (cm *CloudManager) StartContainer(id string) error {
	container, exists := cm.containers[id]
	if !exists {
		return errors.New("container not found")
	}

	container.Status = ContainerRunning
	container.StartedAt = time.Now()

	return nil
}

// StopContainer stops a container.
func (cm *CloudManager) StopContainer(id string) error {
	container, exists := cm.containers[id]
	if !exists {
		return errors.New("container not found")
	}

	container.Status = ContainerStopped

	return nil
}

// Pod management

// CreatePod creates a new pod.
func (cm *CloudManager) CreatePod(name, namespace string, containers []Container) (*Pod, error) {
	pod := &Pod{
		ID:         generatePodID(),
		Name:       name,
		Namespace:  namespace,
		Containers: containers,
		Status:     PodPending,
		Labels:     make(map[string]string),
		CreatedAt:  time.Now(),
	}

	cm.pods[pod.ID] = pod

	// Simulate pod startup
	go func() {
		time.Sleep(2 * time.Second)
		pod.Status = PodRunning
	}()

	return pod, nil
}

// Deployment management

// CreateDeployment creates a new deployment.
func (cm *CloudManager) CreateDeployment(name, namespace string, replicas int, template PodTemplate) (*Deployment, error) {
	deployment := &Deployment{
		ID:          generateDeploymentID(),
		Name:        name,
		Namespace:   namespace,
		Replicas:    replicas,
		PodTemplate: template,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	cm.deployments[deployment.ID] = deployment

	// Create pods for deployment
	for i := 0; i < replicas; i++ {
		podName := fmt.Sprintf("%s-%d", name, i)
		containers := make([]Container, len(template.Containers))

		for j, spec := range template.Containers {
			containers[j] = Container{
				ID:     generateContainerID(),
				Name:   spec.Name,
				Image:  spec.Image,
				Status: ContainerCreated,
				Env:    make(map[string]string),
			}

			// Convert EnvVar to map
			for _, env := range spec.Env {
				containers[j].Env[env.Name] = env.Value
			}
		}

		cm.CreatePod(podName, namespace, containers)
	}

	return deployment, nil
}

// Load balancer management

// CreateLoadBalancer creates a new load balancer.
func (cm *CloudManager) CreateLoadBalancer(name string, lbType LoadBalancerType) (*LoadBalancerStruct, error) {
	lb := &LoadBalancerStruct{
		ID:        generateLoadBalancerID(),
		Name:      name,
		Type:      lbType,
		Frontend:  make([]Frontend, 0),
		Backend:   make([]Backend, 0),
		Rules:     make([]Rule, 0),
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}

	cm.loadBalancers[lb.ID] = lb

	// Simulate load balancer creation
	go func() {
		time.Sleep(3 * time.Second)
		lb.Status = StatusRunning
	}()

	return lb, nil
}

// AddBackend adds a backend to a load balancer.
func (cm *CloudManager) AddBackend(lbID string, backend Backend) error {
	lb, exists := cm.loadBalancers[lbID]
	if !exists {
		return errors.New("load balancer not found")
	}

	lb.Backend = append(lb.Backend, backend)

	return nil
}

// Queue management

// CreateQueue creates a new message queue.
func (cm *CloudManager) CreateQueue(name string, queueType QueueType) (*QueueStruct, error) {
	queue := &QueueStruct{
		ID:        generateQueueID(),
		Name:      name,
		Type:      queueType,
		Messages:  make([]Message, 0),
		Status:    StatusRunning,
		CreatedAt: time.Now(),
		Config: QueueConfig{
			MaxMessages:       1000,
			MessageRetention:  24 * time.Hour,
			VisibilityTimeout: 30 * time.Second,
			MaxReceiveCount:   3,
		},
	}

	cm.queues[queue.ID] = queue

	return queue, nil
}

// SendMessage sends a message to a queue.
func (cm *CloudManager) SendMessage(queueID, body string, attributes map[string]string) (*Message, error) {
	queue, exists := cm.queues[queueID]
	if !exists {
		return nil, errors.New("queue not found")
	}

	message := &Message{
		ID:         generateMessageID(),
		Body:       body,
		Attributes: attributes,
		Timestamp:  time.Now(),
		Attempts:   0,
		VisibleAt:  time.Now(),
	}

	queue.Messages = append(queue.Messages, *message)

	return message, nil
}

// ReceiveMessage receives a message from a queue.
func (cm *CloudManager) ReceiveMessage(queueID string) (*Message, error) {
	queue, exists := cm.queues[queueID]
	if !exists {
		return nil, errors.New("queue not found")
	}

	now := time.Now()

	// Find visible message
	for i, message := range queue.Messages {
		if message.VisibleAt.Before(now) {
			// Make message invisible for visibility timeout
			queue.Messages[i].VisibleAt = now.Add(queue.Config.VisibilityTimeout)
			queue.Messages[i].Attempts++

			return &queue.Messages[i], nil
		}
	}

	return nil, errors.New("no messages available")
}

// Cache management

// CreateCache creates a new distributed cache.
func (cm *CloudManager) CreateCache(name string, cacheType CacheType) (*CacheStruct, error) {
	cache := &CacheStruct{
		ID:        generateCacheID(),
		Name:      name,
		Type:      cacheType,
		Nodes:     make([]CacheNode, 0),
		Status:    StatusRunning,
		CreatedAt: time.Now(),
		Config: CacheConfig{
			MaxMemory:   1024 * 1024 * 1024, // 1GB
			Eviction:    LRUPolicy,
			Persistence: false,
			Replication: 1,
			Clustering:  false,
		},
	}

	// Add default node
	cache.Nodes = append(cache.Nodes, CacheNode{
		ID:     generateNodeID(),
		Host:   "localhost",
		Port:   6379,
		Status: NodeOnline,
		Memory: CacheMemoryInfo{
			Total:     cache.Config.MaxMemory,
			Available: cache.Config.MaxMemory,
			Used:      0,
		},
	})

	cm.caches[cache.ID] = cache

	return cache, nil
}

// Helper functions

func generateServiceID() string {
	return fmt.Sprintf("svc-%d", time.Now().UnixNano())
}

func generateContainerID() string {
	return fmt.Sprintf("cnt-%d", time.Now().UnixNano())
}

func generatePodID() string {
	return fmt.Sprintf("pod-%d", time.Now().UnixNano())
}

func generateDeploymentID() string {
	return fmt.Sprintf("dep-%d", time.Now().UnixNano())
}

func generateLoadBalancerID() string {
	return fmt.Sprintf("lb-%d", time.Now().UnixNano())
}

func generateQueueID() string {
	return fmt.Sprintf("que-%d", time.Now().UnixNano())
}

func generateMessageID() string {
	return fmt.Sprintf("msg-%d", time.Now().UnixNano())
}

func generateCacheID() string {
	return fmt.Sprintf("cache-%d", time.Now().UnixNano())
}

func generateNodeID() string {
	return fmt.Sprintf("node-%d", time.Now().UnixNano())
}

// Cloud provider specific implementations

// AWSProvider represents AWS cloud provider.
type AWSProvider struct {
	credentials *Credentials
	region      string
}

// NewAWSProvider creates a new AWS provider.
func NewAWSProvider(accessKey, secretKey, region string) *AWSProvider {
	return &AWSProvider{
		credentials: &Credentials{
			AccessKey: accessKey,
			SecretKey: secretKey,
			Region:    region,
		},
		region: region,
	}
}

// CreateEC2Instance creates an EC2 instance.
func (aws *AWSProvider) CreateEC2Instance(instanceType, ami string) (*Service, error) {
	service := &Service{
		ID:       generateServiceID(),
		Name:     "ec2-instance",
		Type:     ComputeService,
		Provider: AWS,
		Region:   aws.region,
		Status:   StatusPending,
		Config: map[string]interface{}{
			"instanceType": instanceType,
			"ami":          ami,
		},
		CreatedAt: time.Now(),
	}

	return service, nil
}

// CreateS3Bucket creates an S3 bucket.
func (aws *AWSProvider) CreateS3Bucket(bucketName string) (*Service, error) {
	service := &Service{
		ID:       generateServiceID(),
		Name:     bucketName,
		Type:     StorageService,
		Provider: AWS,
		Region:   aws.region,
		Status:   StatusRunning,
		Endpoint: fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucketName, aws.region),
		Config: map[string]interface{}{
			"bucketName": bucketName,
		},
		CreatedAt: time.Now(),
	}

	return service, nil
}

// Microservices framework

// Microservice represents a microservice.
type Microservice struct {
	Name         string
	Version      string
	Port         int
	HealthPath   string
	MetricsPath  string
	Dependencies []string
	Endpoints    []Endpoint
	Config       map[string]interface{}
}

// Endpoint represents a service endpoint.
type Endpoint struct {
	Path    string
	Method  string
	Handler func(interface{}) (interface{}, error)
}

// ServiceRegistry manages service discovery.
type ServiceRegistry struct {
	services map[string]*ServiceRegistration
}

// ServiceRegistration represents a registered service.
type ServiceRegistration struct {
	Name      string
	Host      string
	Port      int
	Health    string
	Metadata  map[string]string
	Timestamp time.Time
}

// RegisterService registers a service in the registry.
func (sr *ServiceRegistry) RegisterService(name, host string, port int) error {
	registration := &ServiceRegistration{
		Name:      name,
		Host:      host,
		Port:      port,
		Health:    fmt.Sprintf("http://%s:%d/health", host, port),
		Metadata:  make(map[string]string),
		Timestamp: time.Now(),
	}

	sr.services[name] = registration

	return nil
}

// DiscoverService discovers a service by name.
func (sr *ServiceRegistry) DiscoverService(name string) (*ServiceRegistration, error) {
	if service, exists := sr.services[name]; exists {
		return service, nil
	}
	return nil, errors.New("service not found")
}

// API Gateway

// APIGateway represents an API gateway.
type APIGateway struct {
	Routes     []Route
	Middleware []Middleware
	RateLimit  *RateLimit
	Auth       *AuthConfig
}

// Route represents an API route.
type Route struct {
	Path        string
	Method      string
	Service     string
	Endpoint    string
	Timeout     time.Duration
	RetryPolicy *RetryPolicy
}

// Middleware represents middleware.
type Middleware interface {
	Process(interface{}) (interface{}, error)
}

// RateLimit represents rate limiting configuration.
type RateLimit struct {
	RequestsPerSecond int
	BurstSize         int
	WindowSize        time.Duration
}

// AuthConfig represents authentication configuration.
type AuthConfig struct {
	Type     AuthType
	Provider string
	Config   map[string]interface{}
}

// AuthType represents authentication types.
type AuthType int

const (
	NoAuth AuthType = iota
	BasicAuth
	BearerToken
	OAuth2
	JWT
)

// RetryPolicy represents retry policy.
type RetryPolicy struct {
	MaxRetries int
	BackoffMs  int
	Timeout    time.Duration
}

// Public API functions

// Initialize initializes the cloud manager.
func Initialize(config *CloudConfig) {
	cloudManager = NewCloudManager(config)
}

// CreateService creates a cloud service.
func CreateService(name string, serviceType ServiceType, provider CloudProvider) (*Service, error) {
	return GetCloudManager().CreateService(name, serviceType, provider)
}

// CreateContainer creates a container.
func CreateContainer(name, image string) (*Container, error) {
	return GetCloudManager().CreateContainer(name, image)
}

// CreateQueue creates a message queue.
func CreateQueue(name string, queueType QueueType) (*QueueStruct, error) {
	return GetCloudManager().CreateQueue(name, queueType)
}

// CreateCache creates a distributed cache.
func CreateCache(name string, cacheType CacheType) (*CacheStruct, error) {
	return GetCloudManager().CreateCache(name, cacheType)
}

// Utility functions for configuration

// ParseEndpoint parses a service endpoint URL.
func ParseEndpoint(endpoint string) (*url.URL, error) {
	return url.Parse(endpoint)
}

// ValidateServiceName validates a service name.
func ValidateServiceName(name string) error {
	if len(name) == 0 {
		return errors.New("service name cannot be empty")
	}

	if len(name) > 63 {
		return errors.New("service name too long")
	}

	// Check for valid characters
	for _, char := range name {
		if !((char >= 'a' && char <= 'z') ||
			(char >= 'A' && char <= 'Z') ||
			(char >= '0' && char <= '9') ||
			char == '-' || char == '_') {
			return errors.New("service name contains invalid characters")
		}
	}

	return nil
}

// FormatServiceName formats a service name.
func FormatServiceName(name string) string {
	// Convert to lowercase and replace spaces with hyphens
	name = strings.ToLower(name)
	name = strings.ReplaceAll(name, " ", "-")
	name = strings.ReplaceAll(name, "_", "-")

	return name
}
