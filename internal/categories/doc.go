// Package categories layers a priority-ordered taxonomy over the flat skill
// namespace. On disk a category is a folder named "(<id>)" under the skills
// root, optionally described by a _category.json file beside it. Skills that
// come from the remote registry carry their category id directly; Group
// reconciles both sources and always returns every skill exactly once.
package categories
