package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"

	model "gooze.dev/pkg/polymut/internal/model"
)

// MockBackupStore is a mock type for the BackupStore type.
type MockBackupStore struct {
	mock.Mock
}

type MockBackupStore_Expecter struct {
	mock *mock.Mock
}

func (_m *MockBackupStore) EXPECT() *MockBackupStore_Expecter {
	return &MockBackupStore_Expecter{mock: &_m.Mock}
}

// Discard provides a mock function with given fields: ctx, backup
func (_m *MockBackupStore) Discard(ctx context.Context, backup model.Backup) error {
	ret := _m.Called(ctx, backup)

	if len(ret) == 0 {
		panic("no return value specified for Discard")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Backup) error); ok {
		r0 = rf(ctx, backup)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockBackupStore_Discard_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Discard'
type MockBackupStore_Discard_Call struct {
	*mock.Call
}

// Discard is a helper method to define mock.On call
func (_e *MockBackupStore_Expecter) Discard(ctx interface{}, backup interface{}) *MockBackupStore_Discard_Call {
	return &MockBackupStore_Discard_Call{Call: _e.mock.On("Discard", ctx, backup)}
}

func (_c *MockBackupStore_Discard_Call) Return(_a0 error) *MockBackupStore_Discard_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockBackupStore_Discard_Call) RunAndReturn(run func(context.Context, model.Backup) error) *MockBackupStore_Discard_Call {
	_c.Call.Return(run)
	return _c
}

// Pending provides a mock function with given fields: ctx
func (_m *MockBackupStore) Pending(ctx context.Context) ([]model.Backup, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for Pending")
	}

	var r0 []model.Backup
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]model.Backup, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []model.Backup); ok {
		r0 = rf(ctx)
	} else if ret.Get(0) != nil {
		r0 = ret.Get(0).([]model.Backup)
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockBackupStore_Pending_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Pending'
type MockBackupStore_Pending_Call struct {
	*mock.Call
}

// Pending is a helper method to define mock.On call
func (_e *MockBackupStore_Expecter) Pending(ctx interface{}) *MockBackupStore_Pending_Call {
	return &MockBackupStore_Pending_Call{Call: _e.mock.On("Pending", ctx)}
}

func (_c *MockBackupStore_Pending_Call) Return(_a0 []model.Backup, _a1 error) *MockBackupStore_Pending_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockBackupStore_Pending_Call) RunAndReturn(run func(context.Context) ([]model.Backup, error)) *MockBackupStore_Pending_Call {
	_c.Call.Return(run)
	return _c
}

// Restore provides a mock function with given fields: ctx, backup
func (_m *MockBackupStore) Restore(ctx context.Context, backup model.Backup) error {
	ret := _m.Called(ctx, backup)

	if len(ret) == 0 {
		panic("no return value specified for Restore")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Backup) error); ok {
		r0 = rf(ctx, backup)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// MockBackupStore_Restore_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Restore'
type MockBackupStore_Restore_Call struct {
	*mock.Call
}

// Restore is a helper method to define mock.On call
func (_e *MockBackupStore_Expecter) Restore(ctx interface{}, backup interface{}) *MockBackupStore_Restore_Call {
	return &MockBackupStore_Restore_Call{Call: _e.mock.On("Restore", ctx, backup)}
}

func (_c *MockBackupStore_Restore_Call) Return(_a0 error) *MockBackupStore_Restore_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *MockBackupStore_Restore_Call) RunAndReturn(run func(context.Context, model.Backup) error) *MockBackupStore_Restore_Call {
	_c.Call.Return(run)
	return _c
}

// Save provides a mock function with given fields: ctx, path, content
func (_m *MockBackupStore) Save(ctx context.Context, path model.Path, content []byte) (model.Backup, error) {
	ret := _m.Called(ctx, path, content)

	if len(ret) == 0 {
		panic("no return value specified for Save")
	}

	var r0 model.Backup
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.Path, []byte) (model.Backup, error)); ok {
		return rf(ctx, path, content)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.Path, []byte) model.Backup); ok {
		r0 = rf(ctx, path, content)
	} else {
		r0 = ret.Get(0).(model.Backup)
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.Path, []byte) error); ok {
		r1 = rf(ctx, path, content)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// MockBackupStore_Save_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Save'
type MockBackupStore_Save_Call struct {
	*mock.Call
}

// Save is a helper method to define mock.On call
func (_e *MockBackupStore_Expecter) Save(ctx interface{}, path interface{}, content interface{}) *MockBackupStore_Save_Call {
	return &MockBackupStore_Save_Call{Call: _e.mock.On("Save", ctx, path, content)}
}

func (_c *MockBackupStore_Save_Call) Return(_a0 model.Backup, _a1 error) *MockBackupStore_Save_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *MockBackupStore_Save_Call) RunAndReturn(run func(context.Context, model.Path, []byte) (model.Backup, error)) *MockBackupStore_Save_Call {
	_c.Call.Return(run)
	return _c
}

// NewMockBackupStore creates a new instance of MockBackupStore. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewMockBackupStore(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockBackupStore {
	mock := &MockBackupStore{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
