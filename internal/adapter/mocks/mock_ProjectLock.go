package mocks

import mock "github.com/stretchr/testify/mock"

// MockProjectLock is a mock type for the ProjectLock type.
type MockProjectLock struct {
	mock.Mock
}

type MockProjectLock_Expecter struct {
	mock *mock.Mock
}

func (_m *MockProjectLock) EXPECT() *MockProjectLock_Expecter {
	return &MockProjectLock_Expecter{mock: &_m.Mock}
}

// TryLock provides a mock function with no fields
func (_m *MockProjectLock) TryLock() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for TryLock")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockProjectLock_TryLock_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'TryLock'
type MockProjectLock_TryLock_Call struct {
	*mock.Call
}

// TryLock is a helper method to define mock.On call
func (_e *MockProjectLock_Expecter) TryLock() *MockProjectLock_TryLock_Call {
	return &MockProjectLock_TryLock_Call{Call: _e.mock.On("TryLock")}
}

func (_c *MockProjectLock_TryLock_Call) Return(_a0 error) *MockProjectLock_TryLock_Call {
	_c.Call.Return(_a0)
	return _c
}

// Unlock provides a mock function with no fields
func (_m *MockProjectLock) Unlock() error {
	ret := _m.Called()

	if len(ret) == 0 {
		panic("no return value specified for Unlock")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func() error); ok {
		r0 = rf()
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockProjectLock_Unlock_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Unlock'
type MockProjectLock_Unlock_Call struct {
	*mock.Call
}

// Unlock is a helper method to define mock.On call
func (_e *MockProjectLock_Expecter) Unlock() *MockProjectLock_Unlock_Call {
	return &MockProjectLock_Unlock_Call{Call: _e.mock.On("Unlock")}
}

func (_c *MockProjectLock_Unlock_Call) Return(_a0 error) *MockProjectLock_Unlock_Call {
	_c.Call.Return(_a0)
	return _c
}

// NewMockProjectLock creates a new instance of MockProjectLock. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockProjectLock(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockProjectLock {
	mock := &MockProjectLock{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
