package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "gooze.dev/pkg/polymut/internal/model"
)

// MockHintProvider is a mock type for the HintProvider type.
type MockHintProvider struct {
	mock.Mock
}

type MockHintProvider_Expecter struct {
	mock *mock.Mock
}

func (_m *MockHintProvider) EXPECT() *MockHintProvider_Expecter {
	return &MockHintProvider_Expecter{mock: &_m.Mock}
}

// Suggest provides a mock function with given fields: ctx, file, content
func (_m *MockHintProvider) Suggest(ctx context.Context, file model.File, content []byte) ([]model.PriorityHint, error) {
	ret := _m.Called(ctx, file, content)

	if len(ret) == 0 {
		panic("no return value specified for Suggest")
	}

	var r0 []model.PriorityHint
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.File, []byte) ([]model.PriorityHint, error)); ok {
		return rf(ctx, file, content)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.File, []byte) []model.PriorityHint); ok {
		r0 = rf(ctx, file, content)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.PriorityHint)
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.File, []byte) error); ok {
		r1 = rf(ctx, file, content)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockHintProvider_Suggest_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Suggest'
type MockHintProvider_Suggest_Call struct {
	*mock.Call
}

// Suggest is a helper method to define mock.On call
func (_e *MockHintProvider_Expecter) Suggest(ctx interface{}, file interface{}, content interface{}) *MockHintProvider_Suggest_Call {
	return &MockHintProvider_Suggest_Call{Call: _e.mock.On("Suggest", ctx, file, content)}
}

func (_c *MockHintProvider_Suggest_Call) Run(run func(ctx context.Context, file model.File, content []byte)) *MockHintProvider_Suggest_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(model.File), args[2].([]byte))
	})
	return _c
}

func (_c *MockHintProvider_Suggest_Call) Return(_a0 []model.PriorityHint, _a1 error) *MockHintProvider_Suggest_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockHintProvider_Suggest_Call) RunAndReturn(run func(context.Context, model.File, []byte) ([]model.PriorityHint, error)) *MockHintProvider_Suggest_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockHintProvider creates a new instance of MockHintProvider. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockHintProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockHintProvider {
	mock := &MockHintProvider{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
