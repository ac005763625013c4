package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "gooze.dev/pkg/polymut/internal/model"
)

// MockTestRunnerAdapter is a mock type for the TestRunnerAdapter type.
type MockTestRunnerAdapter struct {
	mock.Mock
}

type MockTestRunnerAdapter_Expecter struct {
	mock *mock.Mock
}

func (_m *MockTestRunnerAdapter) EXPECT() *MockTestRunnerAdapter_Expecter {
	return &MockTestRunnerAdapter_Expecter{mock: &_m.Mock}
}

// RunTests provides a mock function with given fields: ctx, req
func (_m *MockTestRunnerAdapter) RunTests(ctx context.Context, req model.TestRequest) (model.TestRun, error) {
	ret := _m.Called(ctx, req)

	if len(ret) == 0 {
		panic("no return value specified for RunTests")
	}

	var r0 model.TestRun
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.TestRequest) (model.TestRun, error)); ok {
		return rf(ctx, req)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.TestRequest) model.TestRun); ok {
		r0 = rf(ctx, req)
	} else {
		r0 = ret.Get(0).(model.TestRun)
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.TestRequest) error); ok {
		r1 = rf(ctx, req)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockTestRunnerAdapter_RunTests_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'RunTests'
type MockTestRunnerAdapter_RunTests_Call struct {
	*mock.Call
}

// RunTests is a helper method to define mock.On call
func (_e *MockTestRunnerAdapter_Expecter) RunTests(ctx interface{}, req interface{}) *MockTestRunnerAdapter_RunTests_Call {
	return &MockTestRunnerAdapter_RunTests_Call{Call: _e.mock.On("RunTests", ctx, req)}
}

func (_c *MockTestRunnerAdapter_RunTests_Call) Run(run func(ctx context.Context, req model.TestRequest)) *MockTestRunnerAdapter_RunTests_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(model.TestRequest))
	})
	return _c
}

func (_c *MockTestRunnerAdapter_RunTests_Call) Return(_a0 model.TestRun, _a1 error) *MockTestRunnerAdapter_RunTests_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockTestRunnerAdapter_RunTests_Call) RunAndReturn(run func(context.Context, model.TestRequest) (model.TestRun, error)) *MockTestRunnerAdapter_RunTests_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockTestRunnerAdapter creates a new instance of MockTestRunnerAdapter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockTestRunnerAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTestRunnerAdapter {
	mock := &MockTestRunnerAdapter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
