package mocks

import (
	context "context"

	mock "github.com/stretchr/testify/mock"
)

// TextRecognizerMock is an autogenerated mock type for the TextRecognizer type
type TextRecognizerMock struct {
	mock.Mock
}

type TextRecognizerMock_Expecter struct {
	mock *mock.Mock
}

func (_m *TextRecognizerMock) EXPECT() *TextRecognizerMock_Expecter {
	return &TextRecognizerMock_Expecter{mock: &_m.Mock}
}

// Recognize provides a mock function with given fields: ctx, imagePath
func (_m *TextRecognizerMock) Recognize(ctx context.Context, imagePath string) (string, error) {
	ret := _m.Called(ctx, imagePath)

	if len(ret) == 0 {
		panic("no return value specified for Recognize")
	}

	var r0 string
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, string) (string, error)); ok {
		return rf(ctx, imagePath)
	}
	if rf, ok := ret.Get(0).(func(context.Context, string) string); ok {
		r0 = rf(ctx, imagePath)
	} else {
		r0 = ret.Get(0).(string)
	}

	if rf, ok := ret.Get(1).(func(context.Context, string) error); ok {
		r1 = rf(ctx, imagePath)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// TextRecognizerMock_Recognize_Call is a *mock.Call that shadows Run/Return methods with type explicit version for method 'Recognize'
type TextRecognizerMock_Recognize_Call struct {
	*mock.Call
}

// Recognize is a helper method to define mock.On call
//   - ctx context.Context
//   - imagePath string
func (_e *TextRecognizerMock_Expecter) Recognize(ctx interface{}, imagePath interface{}) *TextRecognizerMock_Recognize_Call {
	return &TextRecognizerMock_Recognize_Call{Call: _e.mock.On("Recognize", ctx, imagePath)}
}

func (_c *TextRecognizerMock_Recognize_Call) Run(run func(ctx context.Context, imagePath string)) *TextRecognizerMock_Recognize_Call {
	_c.Call.Run(func(args mock.Arguments) {
		run(args[0].(context.Context), args[1].(string))
	})
	return _c
}

func (_c *TextRecognizerMock_Recognize_Call) Return(_a0 string, _a1 error) *TextRecognizerMock_Recognize_Call {
	_c.Call.Return(_a0, _a1)
	return _c
}

func (_c *TextRecognizerMock_Recognize_Call) RunAndReturn(run func(context.Context, string) (string, error)) *TextRecognizerMock_Recognize_Call {
	_c.Call.Return(run)
	return _c
}

// NewTextRecognizerMock creates a new instance of TextRecognizerMock. It also registers a testing interface on the mock and a cleanup function to assert the mocks expectations.
// The first argument is typically a *testing.T value.
func NewTextRecognizerMock(t interface {
	mock.TestingT
	Cleanup(func())
}) *TextRecognizerMock {
	mock := &TextRecognizerMock{}
	mock.Mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
