package mocks

import (
	context "context"

	domain "github.com/bnema/docforge/internal/domain"

	mock "github.com/stretchr/testify/mock"
)

// JobStoreMock is an autogenerated mock type for the JobStore type
type JobStoreMock struct {
	mock.Mock
}

type JobStoreMock_Expecter struct {
	mock *mock.Mock
}

func (_m *JobStoreMock) EXPECT() *JobStoreMock_Expecter {
	return &JobStoreMock_Expecter{mock: &_m.Mock}
}

// Create provides a mock function with given fields: ctx, job
func (_m *JobStoreMock) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	ret := _m.Called(ctx, job)

	if len(ret) == 0 {
		panic("no return value specified for Create")
	}

	var r0 *domain.Job
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Job) (*domain.Job, error)); ok {
		return rf(ctx, job)
	}
	if rf, ok := ret.Get(0).(func(context.Context, *domain.Job) *domain.Job); ok {
		r0 = rf(ctx, job)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.Job)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, *domain.Job) error); ok {
		r1 = rf(ctx, job)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// JobStoreMock_Create_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Create'
type JobStoreMock_Create_Call struct {
	*mock.Call
}

// Create is a helper method to define mock.On call
//   - ctx context.Context
//   - job *domain.Job
func (_e *JobStoreMock_Expecter) Create(ctx interface{}, job interface{}) *JobStoreMock_Create_Call {
	return &JobStoreMock_Create_Call{Call: _e.mock.On("Create", ctx, job)}
}

func (_c *JobStoreMock_Create_Call) Run(run func(ctx context.Context, job *domain.Job)) *JobStoreMock_Create_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(*domain.Job))
	})
	return _c
}

func (_c *JobStoreMock_Create_Call) Return(_a0 *domain.Job, _a1 error) *JobStoreMock_Create_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *JobStoreMock_Create_Call) RunAndReturn(run func(context.Context, *domain.Job) (*domain.Job, error)) *JobStoreMock_Create_Call {
	_c.Call.Return(run)
	return _c
}

// Delete provides a mock function with given fields: ctx, id
func (_m *JobStoreMock) Delete(ctx context.Context, id string) error {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Delete")
	}

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, string) error); ok {
		r0 = rf(ctx, id)
	} else {
		r0 = ret.Error(0)
	}

	return r0
}

// JobStoreMock_Delete_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Delete'
type JobStoreMock_Delete_Call struct {
	*mock.Call
}

// Delete is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
func (_e *JobStoreMock_Expecter) Delete(ctx interface{}, id interface{}) *JobStoreMock_Delete_Call {
	return &JobStoreMock_Delete_Call{Call: _e.mock.On("Delete", ctx, id)}
}

func (_c *JobStoreMock_Delete_Call) Run(run func(ctx context.Context, id string)) *JobStoreMock_Delete_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *JobStoreMock_Delete_Call) Return(_a0 error) *JobStoreMock_Delete_Call {
	_c.Call.Return(_a0)
	return _c
}

func (_c *JobStoreMock_Delete_Call) RunAndReturn(run func(context.Context, string) error) *JobStoreMock_Delete_Call {
	_c.Call.Return(run)
	return _c
}

// Get provides a mock function with given fields: ctx, id
func (_m *JobStoreMock) Get(ctx context.Context, id string) (*domain.Job, error) {
	ret := _m.Called(ctx, id)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 *domain.Job
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (*domain.Job, error)); ok {
		return rf(ctx, id)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) *domain.Job); ok {
		r0 = rf(ctx, id)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.Job)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, id)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// JobStoreMock_Get_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Get'
type JobStoreMock_Get_Call struct {
	*mock.Call
}

// Get is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
func (_e *JobStoreMock_Expecter) Get(ctx interface{}, id interface{}) *JobStoreMock_Get_Call {
	return &JobStoreMock_Get_Call{Call: _e.mock.On("Get", ctx, id)}
}

func (_c *JobStoreMock_Get_Call) Run(run func(ctx context.Context, id string)) *JobStoreMock_Get_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *JobStoreMock_Get_Call) Return(_a0 *domain.Job, _a1 error) *JobStoreMock_Get_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *JobStoreMock_Get_Call) RunAndReturn(run func(context.Context, string) (*domain.Job, error)) *JobStoreMock_Get_Call {
	_c.Call.Return(run)
	return _c
}

// List provides a mock function with given fields: ctx
func (_m *JobStoreMock) List(ctx context.Context) ([]*domain.Job, error) {
	ret := _m.Called(ctx)

	if len(ret) == 0 {
		panic("no return value specified for List")
	}

	var r0 []*domain.Job
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context) ([]*domain.Job, error)); ok {
		return rf(ctx)
	}
	if rf, ok := ret.Get(0).(func(context.Context) []*domain.Job); ok {
		r0 = rf(ctx)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]*domain.Job)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context) error); ok {
		r1 = rf(ctx)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// JobStoreMock_List_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'List'
type JobStoreMock_List_Call struct {
	*mock.Call
}

// List is a helper method to define mock.On call
//   - ctx context.Context
func (_e *JobStoreMock_Expecter) List(ctx interface{}) *JobStoreMock_List_Call {
	return &JobStoreMock_List_Call{Call: _e.mock.On("List", ctx)}
}

func (_c *JobStoreMock_List_Call) Run(run func(ctx context.Context)) *JobStoreMock_List_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context))
	})
	return _c
}

func (_c *JobStoreMock_List_Call) Return(_a0 []*domain.Job, _a1 error) *JobStoreMock_List_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *JobStoreMock_List_Call) RunAndReturn(run func(context.Context) ([]*domain.Job, error)) *JobStoreMock_List_Call {
	_c.Call.Return(run)
	return _c
}

// Update provides a mock function with given fields: ctx, id, patch
func (_m *JobStoreMock) Update(ctx context.Context, id string, patch domain.JobPatch) (*domain.Job, error) {
	ret := _m.Called(ctx, id, patch)

	if len(ret) == 0 {
		panic("no return value specified for Update")
	}

	var r0 *domain.Job
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string, domain.JobPatch) (*domain.Job, error)); ok {
		return rf(ctx, id, patch)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string, domain.JobPatch) *domain.Job); ok {
		r0 = rf(ctx, id, patch)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).(*domain.Job)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, string, domain.JobPatch) error); ok {
		r1 = rf(ctx, id, patch)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// JobStoreMock_Update_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Update'
type JobStoreMock_Update_Call struct {
	*mock.Call
}

// Update is a helper method to define mock.On call
//   - ctx context.Context
//   - id string
//   - patch domain.JobPatch
func (_e *JobStoreMock_Expecter) Update(ctx interface{}, id interface{}, patch interface{}) *JobStoreMock_Update_Call {
	return &JobStoreMock_Update_Call{Call: _e.mock.On("Update", ctx, id, patch)}
}

func (_c *JobStoreMock_Update_Call) Run(run func(ctx context.Context, id string, patch domain.JobPatch)) *JobStoreMock_Update_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string), args[2].(domain.JobPatch))
	})
	return _c
}

func (_c *JobStoreMock_Update_Call) Return(_a0 *domain.Job, _a1 error) *JobStoreMock_Update_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *JobStoreMock_Update_Call) RunAndReturn(run func(context.Context, string, domain.JobPatch) (*domain.Job, error)) *JobStoreMock_Update_Call {
	_c.Call.Return(run)
	return _c
}

// NewJobStoreMock creates a new instance of JobStoreMock. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewJobStoreMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *JobStoreMock {
	mock := &JobStoreMock{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
