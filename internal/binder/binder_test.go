package binder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sanjeetkumar61/FormBuilder/internal/apperr"
	"github.com/Sanjeetkumar61/FormBuilder/internal/models"
	"github.com/Sanjeetkumar61/FormBuilder/internal/schema"
)

func testForm(t *testing.T, defs ...schema.Definition) *models.Form {
	t.Helper()
	fields, err := schema.BuildAll(defs)
	require.NoError(t, err)
	return &models.Form{ID: "f1", AdminID: "a1", Title: "Test", Fields: fields, IsActive: true}
}

func TestParsePartName(t *testing.T) {
	tests := []struct {
		name  string
		id    int
		label string
	}{
		{"3_Profile Picture", 3, "Profile Picture"},
		{"Profile Picture", 0, "Profile Picture"},
		{"12_first_last_name", 12, "first_last_name"},
		{"abc_Resume", 0, "Resume"},
		{"7_", 7, "7_"},
		{"-2_Neg", 0, "Neg"},
		{"", 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, label := ParsePartName(tt.name)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.label, label)
		})
	}
}

func TestPayloadValidate(t *testing.T) {
	full := Payload{FormID: "f1", UserID: "USER_1", UserName: "Ada", Answers: []byte(`{}`)}
	assert.NoError(t, full.Validate())

	for _, p := range []Payload{
		{UserID: "USER_1", UserName: "Ada", Answers: []byte(`{}`)},
		{FormID: "f1", UserName: "Ada", Answers: []byte(`{}`)},
		{FormID: "f1", UserID: "USER_1", UserName: " ", Answers: []byte(`{}`)},
		{FormID: "f1", UserID: "USER_1", UserName: "Ada"},
	} {
		assert.ErrorIs(t, p.Validate(), apperr.ErrValidation)
	}
}

func TestBind_DropdownAnswerWithoutFiles(t *testing.T) {
	form := testForm(t, schema.Definition{ID: 1, Label: "Rating", Type: schema.TypeDropdown, Options: []string{"Good", "Bad"}})

	res, err := Bind(form, Payload{Answers: []byte(`{"Rating":"Good"}`)})
	require.NoError(t, err)

	a, ok := res.Answers.ByLabel("Rating")
	require.True(t, ok)
	assert.Equal(t, "Good", a.Value.Text())
	assert.Equal(t, 1, a.FieldID)
	assert.Empty(t, res.Uploads)
	assert.NotNil(t, res.Uploads)
}

func TestBind_AnswersFollowFormOrderAndAcceptIDKeys(t *testing.T) {
	form := testForm(t,
		schema.Definition{ID: 10, Label: "Name", Type: schema.TypeText},
		schema.Definition{ID: 20, Label: "Age", Type: schema.TypeNumber},
	)

	res, err := Bind(form, Payload{Answers: []byte(`{"20": 31, "Name": "Ada"}`)})
	require.NoError(t, err)

	require.Len(t, res.Answers, 2)
	assert.Equal(t, 10, res.Answers[0].FieldID)
	assert.Equal(t, 20, res.Answers[1].FieldID)
	assert.Equal(t, "Age", res.Answers[1].Label)
	assert.Equal(t, "31", res.Answers[1].Value.Text())
}

func TestBind_Rejects(t *testing.T) {
	form := testForm(t,
		schema.Definition{ID: 1, Label: "Name", Type: schema.TypeText, Required: true},
		schema.Definition{ID: 2, Label: "Rating", Type: schema.TypeRadio, Options: []string{"Good", "Bad"}},
		schema.Definition{ID: 3, Label: "Agree", Type: schema.TypeCheckbox, Required: true},
	)

	tests := []struct {
		name    string
		answers string
		want    error
	}{
		{"not an object", `["Ada"]`, apperr.ErrValidation},
		{"malformed json", `{"Name":`, apperr.ErrValidation},
		{"null", `null`, apperr.ErrValidation},
		{"unknown key", `{"Name":"Ada","Agree":true,"Colour":"red"}`, apperr.ErrInvalidAnswer},
		{"option not offered", `{"Name":"Ada","Agree":true,"Rating":"Meh"}`, apperr.ErrInvalidAnswer},
		{"required text missing", `{"Name":"","Agree":true}`, apperr.ErrValidation},
		{"required checkbox unchecked", `{"Name":"Ada","Agree":false}`, apperr.ErrValidation},
		{"answered twice", `{"Name":"Ada","1":"Bob","Agree":true}`, apperr.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Bind(form, Payload{Answers: []byte(tt.answers)})
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestBind_FileSizeLimit(t *testing.T) {
	const limit = 1024
	form := testForm(t, schema.Definition{ID: 3, Label: "Profile Picture", Type: schema.TypeFile, MaxFileSize: limit})

	ok := Part{Name: "3_Profile Picture", FileName: "me.png", ContentType: "image/png", Size: limit}
	res, err := Bind(form, Payload{Answers: []byte(`{}`), Parts: []Part{ok}})
	require.NoError(t, err)
	require.Len(t, res.Uploads, 1)
	assert.Equal(t, 3, res.Uploads[0].FieldID)
	assert.Equal(t, "Profile Picture", res.Uploads[0].FieldLabel)

	tooBig := ok
	tooBig.Size = limit + 1
	_, err = Bind(form, Payload{Answers: []byte(`{}`), Parts: []Part{tooBig}})
	assert.ErrorIs(t, err, apperr.ErrFileTooLarge)
}

func TestBind_FileTypeChecked(t *testing.T) {
	form := testForm(t, schema.Definition{ID: 4, Label: "CV", Type: schema.TypeFile, AcceptedFileTypes: []schema.FileCategory{schema.FilePDF}})

	_, err := Bind(form, Payload{Answers: []byte(`{}`), Parts: []Part{{Name: "4_CV", FileName: "cv.exe", Size: 10}}})
	assert.ErrorIs(t, err, apperr.ErrInvalidAnswer)
}

func TestBind_MalformedPartNameIsKept(t *testing.T) {
	form := testForm(t, schema.Definition{ID: 3, Label: "Profile Picture", Type: schema.TypeFile, MaxFileSize: 10})

	res, err := Bind(form, Payload{
		Answers: []byte(`{}`),
		Parts:   []Part{{Name: "Profile Picture", FileName: "me.png", Size: 50}},
	})
	require.NoError(t, err)
	require.Len(t, res.Uploads, 1)
	assert.Equal(t, 0, res.Uploads[0].FieldID)
	assert.Equal(t, "Profile Picture", res.Uploads[0].FieldLabel)
}

func TestBind_RequiredFileField(t *testing.T) {
	form := testForm(t, schema.Definition{ID: 5, Label: "CV", Type: schema.TypeFile, Required: true})

	_, err := Bind(form, Payload{Answers: []byte(`{"CV":""}`)})
	assert.ErrorIs(t, err, apperr.ErrValidation)

	res, err := Bind(form, Payload{Answers: []byte(`{"CV":""}`), Parts: []Part{{Name: "5_CV", FileName: "cv.pdf", Size: 1}}})
	require.NoError(t, err)
	assert.Len(t, res.Uploads, 1)
	assert.Empty(t, res.Answers, "file fields carry no answer value")
}

func TestBind_LongNumbersKeepEveryDigit(t *testing.T) {
	form := testForm(t,
		schema.Definition{ID: 1, Label: "Account", Type: schema.TypeNumber},
		schema.Definition{ID: 2, Label: "Phone", Type: schema.TypeText},
	)

	res, err := Bind(form, Payload{Answers: []byte(`{"Account": 12345678901234567891, "Phone": 9876543210123456789}`)})
	require.NoError(t, err)

	account, ok := res.Answers.ByLabel("Account")
	require.True(t, ok)
	assert.Equal(t, "12345678901234567891", account.Value.Text())

	phone, ok := res.Answers.ByLabel("Phone")
	require.True(t, ok)
	assert.Equal(t, "9876543210123456789", phone.Value.Text())
}

func TestBind_RejectsTrailingData(t *testing.T) {
	form := testForm(t, schema.Definition{ID: 1, Label: "Name", Type: schema.TypeText})

	_, err := Bind(form, Payload{Answers: []byte(`{"Name":"Ada"} {"Name":"Bob"}`)})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}
