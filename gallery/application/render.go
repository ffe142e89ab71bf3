package application

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/picshare/picshare/gallery/domain"
)

const detailPage = `<html>
<head>
    <style>
        body {
            font-family: Arial, sans-serif;
            background-color: #f2f2f2;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            padding: 20px;
        }

        .content {
            text-align: center;
        }

        h2 {
            color: #333;
            margin-bottom: 20px;
        }

        img {
            max-width: 500px;
            height: auto;
            margin-bottom: 20px;
        }

        .goback-btn {
            padding: 10px 20px;
            background-color: #333;
            color: #fff;
            text-decoration: none;
            border: none;
            border-radius: 4px;
            cursor: pointer;
        }

        .goback-btn:hover {
            background-color: #555;
        }
    </style>
</head>
<body>
    <div class="content">
        <h2>Title: {{.Title}}</h2>
        <img src="{{.Path}}" alt="{{.Title}}" />
        <br/><br/>
        <button class="goback-btn" onclick="window.location.href='/';">Go Back</button>
    </div>
</body>
</html>
`

var detailTemplate = template.Must(template.New("picture").Parse(detailPage))

// RenderPicture renders the detail page for one record. Pure; no I/O.
func RenderPicture(record *domain.ImageRecord) (string, error) {
	if record == nil {
		return "", fmt.Errorf("record cannot be nil")
	}

	var sb strings.Builder
	if err := detailTemplate.Execute(&sb, record); err != nil {
		return "", fmt.Errorf("failed to render picture page: %w", err)
	}

	return sb.String(), nil
}
