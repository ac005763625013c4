package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "gooze.dev/pkg/polymut/internal/model"
)

// MockVCSAdapter is a mock type for the VCSAdapter type.
type MockVCSAdapter struct {
	mock.Mock
}

type MockVCSAdapter_Expecter struct {
	mock *mock.Mock
}

func (_m *MockVCSAdapter) EXPECT() *MockVCSAdapter_Expecter {
	return &MockVCSAdapter_Expecter{mock: &_m.Mock}
}

// ChangedFiles provides a mock function with given fields: ctx, root, baseRef
func (_m *MockVCSAdapter) ChangedFiles(ctx context.Context, root model.Path, baseRef string) ([]model.Path, error) {
	ret := _m.Called(ctx, root, baseRef)

	if len(ret) == 0 {
		panic("no return value specified for ChangedFiles")
	}

	var r0 []model.Path
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Path, string) ([]model.Path, error)); ok {
		return rf(ctx, root, baseRef)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Path, string) []model.Path); ok {
		r0 = rf(ctx, root, baseRef)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Path)
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.Path, string) error); ok {
		r1 = rf(ctx, root, baseRef)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockVCSAdapter_ChangedFiles_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'ChangedFiles'
type MockVCSAdapter_ChangedFiles_Call struct {
	*mock.Call
}

// ChangedFiles is a helper method to define mock.On call
func (_e *MockVCSAdapter_Expecter) ChangedFiles(ctx interface{}, root interface{}, baseRef interface{}) *MockVCSAdapter_ChangedFiles_Call {
	return &MockVCSAdapter_ChangedFiles_Call{Call: _e.mock.On("ChangedFiles", ctx, root, baseRef)}
}

func (_c *MockVCSAdapter_ChangedFiles_Call) Run(run func(ctx context.Context, root model.Path, baseRef string)) *MockVCSAdapter_ChangedFiles_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(model.Path), args[2].(string))
	})
	return _c
}

func (_c *MockVCSAdapter_ChangedFiles_Call) Return(_a0 []model.Path, _a1 error) *MockVCSAdapter_ChangedFiles_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockVCSAdapter_ChangedFiles_Call) RunAndReturn(run func(context.Context, model.Path, string) ([]model.Path, error)) *MockVCSAdapter_ChangedFiles_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockVCSAdapter creates a new instance of MockVCSAdapter. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockVCSAdapter(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockVCSAdapter {
	mock := &MockVCSAdapter{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
