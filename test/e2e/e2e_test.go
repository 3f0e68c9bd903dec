// test/e2e/e2e_test.go
package e2e

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"esg-retrofit-workers/internal/common/camunda"
	"esg-retrofit-workers/internal/common/logger"
	"esg-retrofit-workers/internal/reporting"
	"esg-retrofit-workers/internal/repository/synthetic"

	projectretrofitimpact "esg-retrofit-workers/internal/workers/retrofit/project-retrofit-impact"
	computeesgscores "esg-retrofit-workers/internal/workers/scoring/compute-esg-scores"
)

// singleTaskProcess is a start event, one service task of the given type and an end event.
func singleTaskProcess(processID, taskType string) []byte {
	return []byte(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<bpmn:definitions xmlns:bpmn="http://www.omg.org/spec/BPMN/20100524/MODEL"
  xmlns:zeebe="http://camunda.org/schema/zeebe/1.0"
  id="Definitions_%[1]s" targetNamespace="http://bpmn.io/schema/bpmn">
  <bpmn:process id="%[1]s" isExecutable="true">
    <bpmn:startEvent id="start"><bpmn:outgoing>f1</bpmn:outgoing></bpmn:startEvent>
    <bpmn:serviceTask id="task">
      <bpmn:extensionElements><zeebe:taskDefinition type="%[2]s" /></bpmn:extensionElements>
      <bpmn:incoming>f1</bpmn:incoming><bpmn:outgoing>f2</bpmn:outgoing>
    </bpmn:serviceTask>
    <bpmn:endEvent id="end"><bpmn:incoming>f2</bpmn:incoming></bpmn:endEvent>
    <bpmn:sequenceFlow id="f1" sourceRef="start" targetRef="task" />
    <bpmn:sequenceFlow id="f2" sourceRef="task" targetRef="end" />
  </bpmn:process>
</bpmn:definitions>`, processID, taskType))
}

func connect(t *testing.T) *camunda.Client {
	address := os.Getenv("ZEEBE_ADDRESS")
	if address == "" {
		t.Skip("ZEEBE_ADDRESS not set, skipping e2e test")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := camunda.NewClient(ctx, address)
	require.NoError(t, err, "zeebe broker unreachable")
	t.Cleanup(func() { client.Close() })
	return client
}

// runProcess deploys a one-task process and runs it to completion with the given variables.
func runProcess(t *testing.T, client *camunda.Client, taskType string, handler camunda.JobHandler,
	variables map[string]interface{}) map[string]interface{} {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	processID := "e2e-" + taskType
	_, err := client.Zeebe().NewDeployResourceCommand().
		AddResource(singleTaskProcess(processID, taskType), processID+".bpmn").
		Send(ctx)
	require.NoError(t, err)

	w := camunda.StartWorker(client.Zeebe(), taskType, camunda.WorkerOptions{
		Name:          "e2e",
		MaxJobsActive: 1,
		Timeout:       30 * time.Second,
	}, handler, nil, logger.NewTestLogger(t))
	defer w.Stop()

	cmd, err := client.Zeebe().NewCreateInstanceCommand().
		BPMNProcessId(processID).
		LatestVersion().
		VariablesFromMap(variables)
	require.NoError(t, err)

	resp, err := cmd.WithResult().Send(ctx)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(resp.GetVariables()), &out))
	return out
}

func TestComputeESGScores_E2E(t *testing.T) {
	client := connect(t)

	h := computeesgscores.NewHandler(&computeesgscores.Config{Timeout: 10 * time.Second},
		nil, nil, logger.NewTestLogger(t))

	out := runProcess(t, client, computeesgscores.TaskType, h, map[string]interface{}{
		"metrics": map[string]interface{}{
			"energyScore":          80,
			"carbonFootprint":      100,
			"wasteRecycling":       60,
			"tenantSatisfaction":   90,
			"communityImpact":      70,
			"governanceCompliance": 85,
		},
	})

	assert.InDelta(t, 68.0, out["environmentalScore"], 0.001)
	assert.InDelta(t, 82.0, out["socialScore"], 0.001)
	assert.InDelta(t, 85.0, out["governanceScore"], 0.001)
	assert.InDelta(t, 75.6, out["overallScore"], 0.001)
}

func TestProjectRetrofitImpact_E2E(t *testing.T) {
	client := connect(t)

	gen, err := synthetic.New(42, 15, time.Now())
	require.NoError(t, err)
	service := reporting.NewService(gen, reporting.BudgetLimits{Default: 100000, Min: 10000, Max: 1000000},
		logger.NewTestLogger(t))
	h := projectretrofitimpact.NewHandler(&projectretrofitimpact.Config{Timeout: 10 * time.Second},
		service, logger.NewTestLogger(t))

	properties, err := gen.ListProperties(context.Background())
	require.NoError(t, err)

	out := runProcess(t, client, projectretrofitimpact.TaskType, h, map[string]interface{}{
		"propertyId":        properties[0].ID,
		"selectedActionIds": []string{"retrofit_0", "retrofit_3"},
		"budget":            100000,
	})

	assert.Equal(t, properties[0].ID, out["propertyId"])
	assert.NotEmpty(t, out["planId"])
	assert.Contains(t, out, "projection")
	assert.Contains(t, out, "overBudget")
}
