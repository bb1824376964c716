package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/topic-ensemble/internal/usecase"
)

// MockPredictUsecase is a mock implementation of PredictUsecase
type MockPredictUsecase struct {
	mock.Mock
}

func (m *MockPredictUsecase) Predict(ctx context.Context, input *usecase.PredictInput) (*usecase.PredictOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PredictOutput), args.Error(1)
}

func (m *MockPredictUsecase) Health(ctx context.Context) *usecase.HealthOutput {
	return m.Called(ctx).Get(0).(*usecase.HealthOutput)
}

func (m *MockPredictUsecase) Ready(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockPredictUsecase) ListClusters(ctx context.Context, limit, offset int) *usecase.ClusterListOutput {
	return m.Called(ctx, limit, offset).Get(0).(*usecase.ClusterListOutput)
}

func setupPredictRouter(h *PredictHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/predict", h.Predict)
	return r
}

func postPredict(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", "/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredict_Success(t *testing.T) {
	mockUC := new(MockPredictUsecase)
	router := setupPredictRouter(NewPredictHandler(mockUC, nil))

	expected := &usecase.PredictOutput{
		Cluster:       0,
		ClusterName:   "Sport",
		Description:   "Матч",
		ModelUsed:     "LogisticRegression_model",
		Confidence:    0.9,
		Probabilities: map[string]float64{"Cluster 0": 0.9, "Cluster 1": 0.1},
	}
	mockUC.On("Predict", mock.Anything, &usecase.PredictInput{Description: "Матч"}).Return(expected, nil)

	w := postPredict(router, `{"description":"Матч"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(0), body["cluster"])
	assert.Equal(t, "Sport", body["cluster_name"])
	assert.Equal(t, "Матч", body["description"])
	assert.Equal(t, "LogisticRegression_model", body["model_used"])
	assert.Equal(t, 0.9, body["confidence"])
	assert.NotContains(t, body, "warning")
	mockUC.AssertExpectations(t)
}

func TestPredict_LowConfidenceWarning(t *testing.T) {
	mockUC := new(MockPredictUsecase)
	router := setupPredictRouter(NewPredictHandler(mockUC, nil))

	mockUC.On("Predict", mock.Anything, mock.Anything).Return(&usecase.PredictOutput{
		Cluster:       2,
		ClusterName:   "Economy",
		Description:   "text",
		ModelUsed:     "sgd_classifier_model",
		Confidence:    0.4,
		Probabilities: map[string]float64{"Cluster 2": 0.4},
		Warning:       usecase.LowConfidenceWarning,
	}, nil)

	w := postPredict(router, `{"description":"text"}`)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"warning":"Low confidence prediction"`)
}

func TestPredict_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty description", body: `{"description":""}`},
		{name: "missing description", body: `{}`},
		{name: "non-string description", body: `{"description":42}`},
		{name: "malformed json", body: `{"description":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := new(MockPredictUsecase)
			router := setupPredictRouter(NewPredictHandler(mockUC, nil))

			w := postPredict(router, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, CodeInvalidRequest, body.Code)
			assert.Equal(t, usecase.ErrInvalidDescription.Error(), body.Error)
			mockUC.AssertNotCalled(t, "Predict", mock.Anything, mock.Anything)
		})
	}
}

func TestPredict_UsecaseErrors(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "description too long",
			err:          usecase.ErrDescriptionTooLong,
			expectedCode: http.StatusBadRequest,
			expectedBody: CodeInvalidRequest,
		},
		{
			name:         "vectorizer missing",
			err:          usecase.ErrVectorizerUnavailable,
			expectedCode: http.StatusInternalServerError,
			expectedBody: "vectorizer not loaded",
		},
		{
			name:         "no models",
			err:          usecase.ErrNoModels,
			expectedCode: http.StatusInternalServerError,
			expectedBody: "no models available for prediction",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockUC := new(MockPredictUsecase)
			router := setupPredictRouter(NewPredictHandler(mockUC, nil))
			mockUC.On("Predict", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := postPredict(router, `{"description":"Some Text"}`)

			assert.Equal(t, tt.expectedCode, w.Code)
			assert.Contains(t, w.Body.String(), tt.expectedBody)
		})
	}
}

func TestPredict_AllModelsFailed(t *testing.T) {
	mockUC := new(MockPredictUsecase)
	router := setupPredictRouter(NewPredictHandler(mockUC, nil))

	mockUC.On("Predict", mock.Anything, mock.Anything).Return(nil, &usecase.AllModelsFailedError{
		Description: "Some Text",
		Failures:    map[string]string{"a": "prediction failed", "b": "prediction failed"},
	})

	w := postPredict(router, `{"description":"Some Text"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body PredictFailureBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, -1, body.Cluster)
	assert.Equal(t, "Unknown", body.ClusterName)
	assert.Equal(t, "Some Text", body.Description)
	assert.Equal(t, "none", body.ModelUsed)
	assert.Equal(t, "All models failed to predict", body.Error)
	assert.Equal(t, "No working models available", body.Warning)
	assert.Equal(t, CodeAllModelsFailed, body.Code)
}
