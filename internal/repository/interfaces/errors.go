package interfaces

import "errors"

// ErrNotFound возвращается, когда сущность не найдена в хранилище.
var ErrNotFound = errors.New("entity not found")

// ErrEmailExists возвращается, когда пользователь с таким email уже существует.
var ErrEmailExists = errors.New("email already exists")

// ErrExerciseInUse возвращается при попытке удалить упражнение,
// на которое ссылаются записи дневника.
var ErrExerciseInUse = errors.New("exercise is referenced by diary entries")
