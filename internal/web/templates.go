// Package web serves the server-rendered catalog pages: the browsable
// book list, the book detail page with its review form, and the book
// create form. Templates are compiled once at startup.
package web

import "html/template"

var pageTemplates = template.Must(template.New("pages").Parse(`
{{define "layout_head"}}
<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}} - Book Review Portal</title>
<style>
body { font-family: sans-serif; max-width: 60rem; margin: 2rem auto; padding: 0 1rem; color: #222; }
a { color: #2a5db0; }
nav { margin-bottom: 1.5rem; }
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: .4rem .6rem; border-bottom: 1px solid #ddd; }
form.inline { display: inline; }
.flash { padding: .6rem 1rem; border-radius: 4px; margin-bottom: 1rem; }
.flash.ok { background: #e6f4e6; }
.flash.err { background: #fae3e3; }
.stars { color: #b8860b; }
fieldset { border: 1px solid #ccc; margin-top: 1.5rem; }
label { display: block; margin-top: .6rem; }
input, select, textarea { width: 100%; max-width: 24rem; padding: .3rem; }
button { margin-top: .8rem; padding: .4rem 1rem; }
</style>
</head>
<body>
<nav><a href="/web/books">Books</a> | <a href="/web/books/new">Add a book</a></nav>
<h1>{{.Title}}</h1>
{{if .Flash}}<div class="flash {{if .FlashErr}}err{{else}}ok{{end}}">{{.Flash}}</div>{{end}}
{{end}}

{{define "layout_foot"}}
</body>
</html>
{{end}}

{{define "book_list"}}
{{template "layout_head" .}}
<form method="get" action="/web/books">
  <input type="text" name="search" placeholder="Search title or ISBN" value="{{.Search}}">
  <select name="category">
    <option value="">All categories</option>
    {{$sel := .Category}}
    {{range .Categories}}<option value="{{.}}" {{if eq (printf "%s" .) $sel}}selected{{end}}>{{.}}</option>{{end}}
  </select>
  <button type="submit">Filter</button>
</form>
<table>
  <tr><th>Title</th><th>Author</th><th>Category</th><th>Rating</th><th>Reviews</th></tr>
  {{range .Books}}
  <tr>
    <td><a href="/web/books/{{.ID}}">{{.Title}}</a></td>
    <td>{{.AuthorName}}</td>
    <td>{{.Category}}</td>
    <td class="stars">{{printf "%.1f" .Rating}}</td>
    <td>{{.ReviewCount}}</td>
  </tr>
  {{else}}
  <tr><td colspan="5">No books found.</td></tr>
  {{end}}
</table>
{{template "layout_foot" .}}
{{end}}

{{define "book_detail"}}
{{template "layout_head" .}}
<p>
  by <strong>{{.Book.AuthorName}}</strong> &middot; {{.Book.Category}} &middot;
  published {{.Book.PublishedDate.Format "2006-01-02"}} &middot; ISBN {{.Book.ISBN}}
</p>
<p class="stars">Average rating: {{printf "%.1f" .Book.AverageRating}} ({{.Book.ReviewCount}} review(s))</p>

<h2>Reviews</h2>
{{range .Book.Reviews}}
<p>
  <strong>{{.ReviewerName}}</strong>
  <span class="stars">{{index $.RatingLabels .Rating}} ({{.Rating}}/5)</span>
  <em>{{.CreatedAt.Format "2006-01-02"}}</em><br>
  {{.Comment}}
</p>
{{else}}
<p>No reviews yet. Be the first!</p>
{{end}}

<fieldset>
<legend>Add your review</legend>
<form method="post" action="/web/books/{{.Book.ID}}">
  <label>Your name <input type="text" name="reviewer_name" maxlength="100" required></label>
  <label>Rating
    <select name="rating" required>
      {{range $n, $label := .RatingLabels}}<option value="{{$n}}">{{$n}} - {{$label}}</option>{{end}}
    </select>
  </label>
  <label>Comment <textarea name="comment" rows="4" required></textarea></label>
  <button type="submit">Submit review</button>
</form>
</fieldset>
{{template "layout_foot" .}}
{{end}}

{{define "book_form"}}
{{template "layout_head" .}}
<form method="post" action="/web/books/new">
  <label>Title <input type="text" name="title" maxlength="200" value="{{.Form.Title}}" required></label>
  <label>Author
    <select name="author" required>
      <option value="">Choose an author</option>
      {{$sel := .Form.AuthorID}}
      {{range .Authors}}<option value="{{.ID}}" {{if eq .ID $sel}}selected{{end}}>{{.Name}}</option>{{end}}
    </select>
  </label>
  <label>ISBN <input type="text" name="isbn" value="{{.Form.ISBN}}" required></label>
  <label>Published date <input type="date" name="published_date" value="{{.Form.PublishedDate}}" required></label>
  <label>Category
    <select name="category">
      {{$cat := .Form.Category}}
      {{range .Categories}}<option value="{{.}}" {{if eq (printf "%s" .) $cat}}selected{{end}}>{{.}}</option>{{end}}
    </select>
  </label>
  <button type="submit">Create book</button>
</form>
{{template "layout_foot" .}}
{{end}}
`))
