//go:build integration

package integrationtest

import (
	"context"
	"fmt"
	"net"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedpandaBroker struct {
	RedpandaVersion  string
	bootstrapServers []string
	testcontainer    testcontainers.Container
}

func (b *RedpandaBroker) Init(ctx context.Context) error {
	port, err := GetFreePort()
	if err != nil {
		return err
	}
	req := testcontainers.ContainerRequest{
		Image:      fmt.Sprintf("docker.vectorized.io/vectorized/redpanda:%s", b.RedpandaVersion),
		WaitingFor: wait.ForLog("Successfully started Redpanda!"),
		User:       "root:root",
		Cmd: []string{
			"redpanda",
			"start",
			"--smp", "1",
			"--reserve-memory", "0M",
			"--overprovisioned",
			"--node-id", "0",
			"--kafka-addr", fmt.Sprintf("OUTSIDE://0.0.0.0:%d", port),
		},
		// Fixed port mapping, the broker advertises the address it listens on.
		ExposedPorts: []string{fmt.Sprintf("%d:%d/tcp", port, port)},
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return err
	}
	b.testcontainer = container

	hostIP, err := container.Host(ctx)
	if err != nil {
		return err
	}
	mappedPort, err := container.MappedPort(ctx, nat.Port(fmt.Sprintf("%d", port)))
	if err != nil {
		return err
	}

	b.bootstrapServers = []string{fmt.Sprintf("%s:%d", hostIP, mappedPort.Int())}
	return nil
}

func (b *RedpandaBroker) Close() error {
	if b.testcontainer == nil {
		return nil
	}
	return b.testcontainer.Terminate(context.Background())
}

func (b *RedpandaBroker) BootstrapServers() []string {
	return b.bootstrapServers
}

const (
	minioUser     = "sigchain"
	minioPassword = "sigchain-secret"
	minioPort     = nat.Port("9000/tcp")
)

type MinioServer struct {
	endpoint      string
	testcontainer testcontainers.Container
}

func (m *MinioServer) Init(ctx context.Context) error {
	req := testcontainers.ContainerRequest{
		Image:        "minio/minio:latest",
		Cmd:          []string{"server", "/data"},
		ExposedPorts: []string{string(minioPort)},
		Env: map[string]string{
			"MINIO_ROOT_USER":     minioUser,
			"MINIO_ROOT_PASSWORD": minioPassword,
		},
		WaitingFor: wait.ForHTTP("/minio/health/live").WithPort(minioPort),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return err
	}
	m.testcontainer = container

	hostIP, err := container.Host(ctx)
	if err != nil {
		return err
	}
	mappedPort, err := container.MappedPort(ctx, minioPort)
	if err != nil {
		return err
	}
	m.endpoint = fmt.Sprintf("%s:%d", hostIP, mappedPort.Int())
	return nil
}

func (m *MinioServer) Close() error {
	if m.testcontainer == nil {
		return nil
	}
	return m.testcontainer.Terminate(context.Background())
}

func (m *MinioServer) Endpoint() string {
	return m.endpoint
}

// GetFreePort asks the kernel for a free open port that is ready to use.
func GetFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func startRedpanda(t *testing.T) *RedpandaBroker {
	t.Helper()
	b := &RedpandaBroker{RedpandaVersion: "latest"}
	t.Cleanup(func() { assert.NoError(t, b.Close()) })
	assert.NoError(t, b.Init(context.Background()))
	return b
}

func startMinio(t *testing.T) *MinioServer {
	t.Helper()
	m := &MinioServer{}
	t.Cleanup(func() { assert.NoError(t, m.Close()) })
	assert.NoError(t, m.Init(context.Background()))
	return m
}
