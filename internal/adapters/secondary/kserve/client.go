package kserve

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"

	"license-plate-service/internal/config"
	"license-plate-service/internal/core/domain"
	output "license-plate-service/internal/core/ports/output"
)

var inferenceServiceGVR = schema.GroupVersionResource{
	Group:    "serving.kserve.io",
	Version:  "v1beta1",
	Resource: "inferenceservices",
}

type kserveDeployer struct {
	client     dynamic.Interface
	enabled    bool
	namespace  string
	storageURI string
}

// NewEndpointDeployer creates a KServe-backed EndpointDeployer. When
// disabled it reports unavailable and registration jobs are rejected
// up front.
func NewEndpointDeployer(cfg *config.KubernetesConfig, storageURI string) (output.EndpointDeployer, error) {
	if !cfg.Enabled {
		return &kserveDeployer{enabled: false}, nil
	}

	var restCfg *rest.Config
	var err error

	if cfg.InCluster {
		restCfg, err = rest.InClusterConfig()
	} else if cfg.KubeConfigPath != "" {
		restCfg, err = clientcmd.BuildConfigFromFlags("", cfg.KubeConfigPath)
	} else {
		// Try default kubeconfig location
		home, _ := os.UserHomeDir()
		kubeconfig := filepath.Join(home, ".kube", "config")
		restCfg, err = clientcmd.BuildConfigFromFlags("", kubeconfig)
	}
	if err != nil {
		return nil, fmt.Errorf("build k8s config: %w", err)
	}

	client, err := dynamic.NewForConfig(restCfg)
	if err != nil {
		return nil, fmt.Errorf("create dynamic client: %w", err)
	}

	namespace := cfg.DefaultNS
	if namespace == "" {
		namespace = "model-serving"
	}

	return &kserveDeployer{
		client:     client,
		enabled:    true,
		namespace:  namespace,
		storageURI: storageURI,
	}, nil
}

func (c *kserveDeployer) IsAvailable() bool {
	return c.enabled
}

func (c *kserveDeployer) Deploy(ctx context.Context, model *domain.Model, version string) (*output.Endpoint, error) {
	if !c.enabled {
		return nil, domain.ErrDeployerUnavailable
	}

	name := fmt.Sprintf("plate-model-%s", model.ID)
	obj := c.buildInferenceServiceCR(name, model, version)

	created, err := c.client.Resource(inferenceServiceGVR).
		Namespace(c.namespace).
		Create(ctx, obj, metav1.CreateOptions{})
	if err != nil {
		return nil, fmt.Errorf("create kserve inferenceservice: %w", err)
	}

	url := parseStatusURL(created)
	if url == "" {
		// the URL appears on the CR once the predictor is ready; fall
		// back to the cluster-local service address until then
		url = fmt.Sprintf("http://%s.%s.svc.cluster.local", name, c.namespace)
	}

	return &output.Endpoint{Name: name, URL: url}, nil
}

func (c *kserveDeployer) Undeploy(ctx context.Context, name string) error {
	if !c.enabled {
		return domain.ErrDeployerUnavailable
	}

	err := c.client.Resource(inferenceServiceGVR).
		Namespace(c.namespace).
		Delete(ctx, name, metav1.DeleteOptions{})
	if err != nil {
		return fmt.Errorf("delete kserve inferenceservice: %w", err)
	}

	return nil
}

func (c *kserveDeployer) buildInferenceServiceCR(name string, model *domain.Model, version string) *unstructured.Unstructured {
	labels := map[string]interface{}{
		"plates.ai-platform/model-id":      model.ID.String(),
		"plates.ai-platform/model-version": version,
	}

	modelSpec := map[string]interface{}{
		"storageUri": fmt.Sprintf("%s/%s", c.storageURI, model.StorageKey),
		"modelFormat": map[string]interface{}{
			"name": string(model.Framework),
		},
	}

	return &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "serving.kserve.io/v1beta1",
			"kind":       "InferenceService",
			"metadata": map[string]interface{}{
				"name":   name,
				"labels": labels,
			},
			"spec": map[string]interface{}{
				"predictor": map[string]interface{}{
					"model": modelSpec,
				},
			},
		},
	}
}

func parseStatusURL(obj *unstructured.Unstructured) string {
	url, _, _ := unstructured.NestedString(obj.Object, "status", "url")
	return url
}

// Ensure interface compliance
var _ output.EndpointDeployer = (*kserveDeployer)(nil)
